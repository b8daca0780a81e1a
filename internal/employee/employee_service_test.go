package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aakifsaf/precision-attendance/internal/employee"
	employeeerrors "github.com/aakifsaf/precision-attendance/internal/employee/errors"
	"github.com/aakifsaf/precision-attendance/internal/messaging/kafka"
	"github.com/aakifsaf/precision-attendance/internal/shared/contextutil"

	employeeMock "github.com/aakifsaf/precision-attendance/internal/employee/mock"
	kafkaMock "github.com/aakifsaf/precision-attendance/internal/messaging/kafka/mock"
	counterMock "github.com/aakifsaf/precision-attendance/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	counter   *counterMock.MockRepository
	redismock redismock.ClientMock
	outbox    *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)
	counterRepo := counterMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewServiceWithOutbox(db, repo, counterRepo, outboxRepo, dbRedis)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		counter:   counterRepo,
		outbox:    outboxRepo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

type outboxWithRIDMatcher struct {
	rid string
}

func MatchOutboxWithRID(rid string) gomock.Matcher {
	return outboxWithRIDMatcher{rid: rid}
}

func (m outboxWithRIDMatcher) Matches(x any) bool {
	event, ok := x.(kafka.OutboxEvent)
	return ok && event.RequestID == m.rid
}

func (m outboxWithRIDMatcher) String() string {
	return fmt.Sprintf("outbox event with request id %q", m.rid)
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success - auto generate badge number", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := employee.CreateEmployeeRequest{
			FullName:   "Alex Johnson",
			Email:      "alex@company.com",
			Department: "Engineering",
			Avatar:     "https://cdn.company.com/avatars/aj.png",
		}
		createdID := uuid.New()

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.counter.EXPECT().
			GetNextValue(ctx, "badge_number").
			Return(int64(123), nil)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, req.FullName, e.FullName)
				assert.Equal(t, req.Email, e.Email)
				assert.Equal(t, "EMP-000123", e.BadgeNumber)
				assert.Equal(t, "staff", e.Role)
				e.ID = createdID
				return nil
			})

		deps.outbox.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.outbox)

		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(1)

		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, createdID.String(), resp.ID)
		assert.Equal(t, "EMP-000123", resp.BadgeNumber)
		assert.Equal(t, "staff", resp.Role)
	})

	t.Run("success - should persist to outbox with request id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		rid := "REQ-123-ABC"
		ctx := contextutil.WithRequestID(context.Background(), rid)

		req := employee.CreateEmployeeRequest{
			FullName: "Sarah Williams",
			Email:    "sarah@company.com",
			Role:     "admin",
		}

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo).AnyTimes()
		deps.counter.EXPECT().GetNextValue(gomock.Any(), gomock.Any()).
			Return(int64(1), nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		deps.outbox.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.outbox)

		deps.outbox.EXPECT().
			Create(gomock.Any(), MatchOutboxWithRID(rid)).
			Return(nil).
			Times(1)

		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		_, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
	})

	t.Run("invalid role rejected before tx", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := employee.CreateEmployeeRequest{
			FullName: "Nobody",
			Email:    "nobody@company.com",
			Role:     "superuser",
		}

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidRole)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("repo error -> rollback", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := employee.CreateEmployeeRequest{
			FullName:    "Michael Chen",
			Email:       "michael@company.com",
			BadgeNumber: "EMP-000101",
		}

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(errors.New("db error"))

		_, err := deps.service.Create(ctx, req)

		assert.Error(t, err)
	})

	t.Run("duplicate badge number -> conflict error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := employee.CreateEmployeeRequest{
			FullName:    "Jessica Brown",
			Email:       "jessica@company.com",
			BadgeNumber: "EMP-000100",
		}

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_badge"})

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrBadgeNumberAlreadyExists)
	})

	t.Run("duplicate email -> conflict error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := employee.CreateEmployeeRequest{
			FullName:    "Emma Wilson",
			Email:       "emma@company.com",
			BadgeNumber: "EMP-000200",
		}

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_email"})

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
	})
}

func TestEmployeeService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		mockEmployees := []employee.Employee{
			{ID: uuid.New(), FullName: "Alex Johnson", Email: "alex@company.com", Role: "staff"},
			{ID: uuid.New(), FullName: "David Miller", Email: "david@company.com", Role: "staff"},
		}

		deps.repo.EXPECT().
			FindAll(ctx).
			Return(mockEmployees, nil).
			Times(1)

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "Alex Johnson", resp[0].FullName)
	})

	t.Run("error repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindAll(ctx).
			Return(nil, errors.New("db error"))

		resp, err := deps.service.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit serves from redis", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectedResp := []employee.EmployeeResponse{
			{ID: uuid.New().String(), FullName: "Emma Wilson", BadgeNumber: "EMP-000006"},
		}
		jsonResp, _ := json.Marshal(expectedResp)

		deps.redismock.ExpectGet(employee.EmployeeOptionsKey).SetVal(string(jsonResp))

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Emma Wilson", resp[0].FullName)
	})

	t.Run("cache miss loads from db and fills redis", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()

		mockEmployees := []employee.Employee{
			{ID: uuid.New(), FullName: "David Miller", BadgeNumber: "EMP-000005"},
		}

		deps.repo.EXPECT().
			FindAll(gomock.Any()).
			Return(mockEmployees, nil).
			Times(1)

		cached, _ := json.Marshal(employee.EmployeeResponse{
			ID:          mockEmployees[0].ID.String(),
			FullName:    "David Miller",
			BadgeNumber: "EMP-000005",
		})
		deps.redismock.ExpectSet(employee.EmployeeOptionsKey, []byte("["+string(cached)+"]"), 1*time.Hour).SetVal("OK")

		resp, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "David Miller", resp[0].FullName)
	})

	t.Run("database error propagates", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()

		deps.repo.EXPECT().
			FindAll(gomock.Any()).
			Return(nil, errors.New("db down"))

		_, err := deps.service.GetOptions(ctx)

		assert.Error(t, err)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.EXPECT().
			FindByID(ctx, id.String()).
			Return(&employee.Employee{ID: id, FullName: "Michael Chen", Role: "staff"}, nil)

		resp, err := deps.service.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "Michael Chen", resp.FullName)
	})

	t.Run("malformed id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success updates role and invalidates cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		req := employee.UpdateEmployeeRequest{
			FullName:   "Jessica Brown",
			Email:      "jessica@company.com",
			Role:       "admin",
			Department: "HR",
		}

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			FindByID(ctx, id.String()).
			Return(&employee.Employee{ID: id, FullName: "Jessica Brown", Role: "staff"}, nil)

		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, "admin", e.Role)
				return nil
			})

		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Update(ctx, id.String(), req)

		assert.NoError(t, err)
		assert.Equal(t, "admin", resp.Role)
	})

	t.Run("missing employee -> not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		req := employee.UpdateEmployeeRequest{
			FullName: "Ghost",
			Email:    "ghost@company.com",
			Role:     "staff",
		}

		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().
			WithTx(gomock.Any()).
			Return(deps.repo)

		deps.repo.EXPECT().
			FindByID(ctx, id).
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, id, req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	id := uuid.New().String()

	expectTx(t, deps.sqlMock, true)

	deps.repo.EXPECT().
		WithTx(gomock.Any()).
		Return(deps.repo)

	deps.repo.EXPECT().
		Delete(ctx, id).
		Return(nil)

	deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

	assert.NoError(t, deps.service.Delete(ctx, id))
}
