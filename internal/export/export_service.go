package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aakifsaf/precision-attendance/internal/attendance"
	"github.com/aakifsaf/precision-attendance/internal/events"
	exporterrors "github.com/aakifsaf/precision-attendance/internal/export/errors"
	"github.com/aakifsaf/precision-attendance/internal/messaging/kafka"
	"github.com/aakifsaf/precision-attendance/internal/shared/contextutil"
	"github.com/aakifsaf/precision-attendance/internal/tracker"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const reportBaseName = "workforce_report"

// Report is a rendered CSV ready to stream to the client.
type Report struct {
	Filename string
	Content  []byte
}

type Service interface {
	// Generate renders the full record snapshot synchronously.
	Generate(ctx context.Context) (Report, error)
	// Request enqueues an async report build and returns its id.
	Request(ctx context.Context, requestedBy string) (string, error)
	// GenerateToFile renders the snapshot into dir, for the consumer.
	GenerateToFile(ctx context.Context, dir string) (string, error)
}

type service struct {
	db     *sql.DB
	repo   attendance.Repository
	outbox kafka.OutboxRepository
	clock  tracker.Clock
	logger *zap.Logger
}

func NewService(db *sql.DB, repo attendance.Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("export.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("export.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		clock:  tracker.SystemClock(),
		logger: l,
	}
}

func NewServiceWithClock(db *sql.DB, repo attendance.Repository, outboxRepo kafka.OutboxRepository, clock tracker.Clock) Service {
	svc := NewService(db, repo, outboxRepo).(*service)
	svc.clock = clock
	return svc
}

func (s *service) Generate(ctx context.Context) (Report, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return Report{}, err
	}
	if len(records) == 0 {
		return Report{}, exporterrors.ErrNoExportData
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return Report{}, err
	}

	s.logger.Info("report generated",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Int("records", len(records)),
	)

	return Report{
		Filename: Filename(reportBaseName, s.clock.Now()),
		Content:  buf.Bytes(),
	}, nil
}

func (s *service) Request(ctx context.Context, requestedBy string) (string, error) {
	rid := contextutil.GetRequestID(ctx)
	reportID := uuid.NewString()

	event := events.ReportRequestedEvent{
		EventType:   "report_requested",
		ReportID:    reportID,
		RequestedBy: requestedBy,
		OccurredAt:  s.clock.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "report",
		AggregateID:   reportID,
		EventType:     event.EventType,
		Topic:         events.ReportRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	s.logger.Info("report requested",
		zap.String("request_id", rid),
		zap.String("report_id", reportID),
		zap.String("requested_by", requestedBy),
	)

	return reportID, nil
}

func (s *service) GenerateToFile(ctx context.Context, dir string) (string, error) {
	report, err := s.Generate(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, report.Filename)
	if err := os.WriteFile(path, report.Content, 0o644); err != nil {
		return "", err
	}

	s.logger.Info("report written", zap.String("path", path))
	return path, nil
}
