package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	attendanceerrors "github.com/aakifsaf/precision-attendance/internal/attendance/errors"
	"github.com/aakifsaf/precision-attendance/internal/events"
	"github.com/aakifsaf/precision-attendance/internal/messaging/kafka"
	"github.com/aakifsaf/precision-attendance/internal/shared/contextutil"
	"github.com/aakifsaf/precision-attendance/internal/tracker"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the clock-in/clock-out state machine. Two states per
// employee: clocked-out and clocked-in; the record store is the source of
// truth for which one holds, the session store only mirrors it.
//
//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, employeeID, employeeName string) (SessionResponse, error)
	ClockOut(ctx context.Context, employeeID string) (AttendanceResponse, error)
	GetSession(ctx context.Context, employeeID string) (SessionResponse, error)
	History(ctx context.Context, employeeID string) ([]AttendanceResponse, error)
	All(ctx context.Context) ([]AttendanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	sessions SessionStore
	trackers *tracker.Registry
	outbox   kafka.OutboxRepository
	clock    tracker.Clock
	cfg      ShiftConfig
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, sessions SessionStore, trackers *tracker.Registry) Service {
	return NewServiceWithOutbox(db, repo, sessions, trackers, nil)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	sessions SessionStore,
	trackers *tracker.Registry,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		sessions: sessions,
		trackers: trackers,
		outbox:   outboxRepo,
		clock:    tracker.SystemClock(),
		cfg:      DefaultShiftConfig,
		logger:   l,
	}
}

// NewServiceWithClock injects the clock; tests pin check-in instants with it.
func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	sessions SessionStore,
	trackers *tracker.Registry,
	outboxRepo kafka.OutboxRepository,
	clock tracker.Clock,
) Service {
	svc := NewServiceWithOutbox(db, repo, sessions, trackers, outboxRepo).(*service)
	svc.clock = clock
	return svc
}

func (s *service) ClockIn(ctx context.Context, employeeID, employeeName string) (SessionResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return SessionResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// The record store decides whether the employee is clocked in; a
	// stale or missing session entry must not allow a second open record.
	open, err := qtx.FindOpenByEmployee(ctx, employeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return SessionResponse{}, err
	}
	if open != nil {
		s.logger.Warn("clock-in rejected, open record exists",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.String("record_id", open.ID.String()),
		)
		return SessionResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	now := s.clock.Now()
	record := &AttendanceRecord{
		ID:           uuid.New(),
		EmployeeID:   empUUID,
		EmployeeName: employeeName,
		WorkDate:     dateOf(now),
		CheckIn:      now,
		Duration:     0,
		Status:       s.cfg.Classify(now),
	}

	if err := qtx.Create(ctx, record); err != nil {
		return SessionResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueClockedEvent(ctx, tx, record, events.EventTypeClockedIn); err != nil {
		return SessionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return SessionResponse{}, err
	}

	session := ActiveSession{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		StartTime:    now,
		LastPing:     now,
		Status:       SessionStatusActive,
	}
	if err := s.sessions.Open(ctx, session); err != nil {
		// The record is committed; the session mirror is rebuilt from it
		// on the next read, so log and carry on.
		s.logger.Error("open session failed after clock-in",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}

	if s.trackers != nil {
		s.trackers.Start(employeeID, now)
	}

	s.logger.Info("clocked in",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("record_id", record.ID.String()),
		zap.String("status", string(record.Status)),
	)

	return SessionResponse{
		EmployeeID:     employeeID,
		StartTime:      now.Format(time.RFC3339),
		LastPing:       now.Format(time.RFC3339),
		Status:         SessionStatusActive,
		ElapsedSeconds: 0,
		Elapsed:        tracker.FormatElapsed(0),
	}, nil
}

func (s *service) ClockOut(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	session, err := s.activeSession(ctx, employeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if session == nil {
		return AttendanceResponse{}, attendanceerrors.ErrNoActiveSession
	}

	now := s.clock.Now()
	duration := int64(now.Sub(session.StartTime) / time.Second)
	if duration < 0 {
		duration = 0
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	var final *AttendanceRecord

	open, err := qtx.FindOpenByEmployee(ctx, employeeID)
	switch {
	case err == nil:
		// Normal path: close the open record in place. Status stays as
		// fixed at clock-in.
		open.CheckOut = &now
		open.Duration = duration
		if err := qtx.Update(ctx, open); err != nil {
			return AttendanceResponse{}, err
		}
		final = open
	case errors.Is(err, gorm.ErrRecordNotFound):
		// The session outlived its record. Synthesize a closed record
		// from the session's start time so the worked period is kept.
		s.logger.Warn("no open record at clock-out, synthesizing",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
		)
		empUUID, parseErr := uuid.Parse(employeeID)
		if parseErr != nil {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
		}
		final = &AttendanceRecord{
			ID:           uuid.New(),
			EmployeeID:   empUUID,
			EmployeeName: session.EmployeeName,
			WorkDate:     dateOf(session.StartTime),
			CheckIn:      session.StartTime,
			CheckOut:     &now,
			Duration:     duration,
			Status:       s.cfg.Classify(session.StartTime),
		}
		if err := qtx.Create(ctx, final); err != nil {
			return AttendanceResponse{}, mapRepositoryError(err)
		}
	default:
		return AttendanceResponse{}, err
	}

	if err := s.enqueueClockedEvent(ctx, tx, final, events.EventTypeClockedOut); err != nil {
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	if err := s.sessions.Close(ctx, employeeID); err != nil {
		s.logger.Error("close session failed after clock-out",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}

	if s.trackers != nil {
		s.trackers.Stop(ctx, employeeID)
	}

	s.logger.Info("clocked out",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("record_id", final.ID.String()),
		zap.Int64("duration", duration),
	)

	return mapToResponse(*final), nil
}

func (s *service) GetSession(ctx context.Context, employeeID string) (SessionResponse, error) {
	session, err := s.activeSession(ctx, employeeID)
	if err != nil {
		return SessionResponse{}, err
	}
	if session == nil {
		return SessionResponse{}, attendanceerrors.ErrNoActiveSession
	}

	elapsed := int64(s.clock.Now().Sub(session.StartTime) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	if s.trackers != nil {
		// Resume after restart, then force a recompute so the reported
		// value never carries drift from a suspended process.
		t := s.trackers.Get(employeeID)
		if t == nil {
			t = s.trackers.Start(employeeID, session.StartTime)
		}
		elapsed = t.Resync()
	}

	_ = s.sessions.Touch(ctx, employeeID)

	return SessionResponse{
		EmployeeID:     session.EmployeeID,
		StartTime:      session.StartTime.Format(time.RFC3339),
		LastPing:       session.LastPing.Format(time.RFC3339),
		Status:         session.Status,
		ElapsedSeconds: elapsed,
		Elapsed:        tracker.FormatElapsed(elapsed),
	}, nil
}

// activeSession resolves the employee's live session, falling back to the
// record store when the redis mirror is gone. An open record without a
// session entry means the mirror expired (or a write failed after commit);
// it is reopened from the record's check-in so clock-out keeps working.
// Neither session nor open record reads as clocked-out.
func (s *service) activeSession(ctx context.Context, employeeID string) (*ActiveSession, error) {
	session, err := s.sessions.Get(ctx, employeeID)
	if err != nil || session != nil {
		return session, err
	}

	open, err := s.repo.FindOpenByEmployee(ctx, employeeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rebuilt := ActiveSession{
		EmployeeID:   employeeID,
		EmployeeName: open.EmployeeName,
		StartTime:    open.CheckIn,
		LastPing:     s.clock.Now(),
		Status:       SessionStatusActive,
	}
	if err := s.sessions.Open(ctx, rebuilt); err != nil {
		s.logger.Error("reopen session mirror failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}

	s.logger.Warn("session mirror rebuilt from open record",
		zap.String("employee_id", employeeID),
		zap.String("record_id", open.ID.String()),
		zap.Time("check_in", open.CheckIn),
	)

	return &rebuilt, nil
}

func (s *service) History(ctx context.Context, employeeID string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidEmployeeID
	}

	rows, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) All(ctx context.Context) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) enqueueClockedEvent(ctx context.Context, tx *sql.Tx, record *AttendanceRecord, eventType string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.AttendanceClockedEvent{
		EventType:  eventType,
		RecordID:   record.ID.String(),
		EmployeeID: record.EmployeeID.String(),
		Status:     string(record.Status),
		Duration:   record.Duration,
		OccurredAt: s.clock.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "attendance",
		AggregateID:   record.ID.String(),
		EventType:     eventType,
		Topic:         events.AttendanceLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// dateOf truncates to the local calendar day for day-bucketing.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
