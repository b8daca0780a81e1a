package app

import (
	"context"
	"net/http"
	"os"

	"github.com/aakifsaf/precision-attendance/internal/attendance"
	"github.com/aakifsaf/precision-attendance/internal/employee"
	"github.com/aakifsaf/precision-attendance/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp wires infrastructure, schema, and every HTTP module into the
// router. The returned cleanup stops the in-process shift trackers.
func BuildApp(router *gin.Engine) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if err := ensureSchema(gormDB); err != nil {
		return nil, err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return nil, err
	}
	logger.Info("redis connection established")

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := employee.SeedDemoRoster(context.Background(), employee.NewRepository(gormDB), logger); err != nil {
			return nil, err
		}
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	cleanup, err := registerModules(router, gormDB, redisClient)
	if err != nil {
		return nil, err
	}

	return cleanup, nil
}

// ensureSchema migrates the gorm entities and creates the raw tables the
// sql-level repositories need. The partial unique index enforces at most
// one open record per employee even under concurrent clock-ins.
func ensureSchema(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&employee.Employee{},
		&attendance.AttendanceRecord{},
	); err != nil {
		return err
	}

	ddl := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_open_record
			ON attendance_records (employee_id)
			WHERE check_out IS NULL AND deleted_at IS NULL`,
		`CREATE TABLE IF NOT EXISTS counters (
			counter_type TEXT PRIMARY KEY,
			last_value   BIGINT NOT NULL DEFAULT 0,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id             UUID PRIMARY KEY,
			request_id     TEXT,
			aggregate_type TEXT NOT NULL,
			aggregate_id   TEXT NOT NULL,
			event_type     TEXT NOT NULL,
			topic          TEXT NOT NULL,
			payload        JSONB NOT NULL,
			status         TEXT NOT NULL DEFAULT 'pending',
			retry_count    INT NOT NULL DEFAULT 0,
			error_message  TEXT,
			next_retry_at  TIMESTAMPTZ,
			processed_at   TIMESTAMPTZ,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created
			ON outbox_events (status, created_at)`,
	}
	for _, stmt := range ddl {
		if err := gormDB.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
