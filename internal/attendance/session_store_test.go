package attendance

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSessionStore_OpenAndGet(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	now := time.Date(2026, 8, 24, 8, 45, 0, 0, time.UTC)
	store := NewSessionStoreWithClock(rdb, func() time.Time { return now })

	employeeID := uuid.New().String()
	session := ActiveSession{
		EmployeeID: employeeID,
		StartTime:  now,
		LastPing:   now,
		Status:     SessionStatusActive,
	}
	payload, _ := json.Marshal(session)

	mock.ExpectSet("attendance:session:"+employeeID, payload, SessionTTL).SetVal("OK")
	assert.NoError(t, store.Open(context.Background(), session))

	mock.ExpectGet("attendance:session:" + employeeID).SetVal(string(payload))
	got, err := store.Get(context.Background(), employeeID)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, employeeID, got.EmployeeID)
	assert.True(t, got.StartTime.Equal(now))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_Get_Missing(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewSessionStore(rdb)

	employeeID := uuid.New().String()
	mock.ExpectGet("attendance:session:" + employeeID).RedisNil()

	got, err := store.Get(context.Background(), employeeID)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_Get_StaleSessionExpiresLazily(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	start := time.Date(2026, 8, 22, 9, 0, 0, 0, time.UTC)
	now := start.Add(SessionTTL + time.Minute)
	store := NewSessionStoreWithClock(rdb, func() time.Time { return now })

	employeeID := uuid.New().String()
	session := ActiveSession{
		EmployeeID: employeeID,
		StartTime:  start,
		LastPing:   start,
		Status:     SessionStatusActive,
	}
	payload, _ := json.Marshal(session)

	mock.ExpectGet("attendance:session:" + employeeID).SetVal(string(payload))
	mock.ExpectDel("attendance:session:" + employeeID).SetVal(1)

	got, err := store.Get(context.Background(), employeeID)
	assert.NoError(t, err)
	assert.Nil(t, got, "session past the staleness window must read as absent")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_Get_CorruptPayloadDegradesToAbsent(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewSessionStore(rdb)

	employeeID := uuid.New().String()
	mock.ExpectGet("attendance:session:" + employeeID).SetVal("{not json")
	mock.ExpectDel("attendance:session:" + employeeID).SetVal(1)

	got, err := store.Get(context.Background(), employeeID)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStore_Close(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewSessionStore(rdb)

	employeeID := uuid.New().String()
	mock.ExpectDel("attendance:session:" + employeeID).SetVal(1)

	assert.NoError(t, store.Close(context.Background(), employeeID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
