package app

import (
	"context"

	"github.com/aakifsaf/precision-attendance/internal/attendance"
	"github.com/aakifsaf/precision-attendance/internal/employee"
	"github.com/aakifsaf/precision-attendance/internal/export"
	"github.com/aakifsaf/precision-attendance/internal/messaging/kafka"
	"github.com/aakifsaf/precision-attendance/internal/middleware"
	"github.com/aakifsaf/precision-attendance/internal/preference"
	"github.com/aakifsaf/precision-attendance/internal/rbac"
	"github.com/aakifsaf/precision-attendance/internal/shared/counter"
	"github.com/aakifsaf/precision-attendance/internal/stats"
	"github.com/aakifsaf/precision-attendance/internal/tracker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) (func(), error) {
	logger := zap.L()

	db, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return nil, err
	}

	// --- Shift tracking infrastructure ---
	sessionStore := attendance.NewSessionStore(rdb)
	checkpointStore := tracker.NewCheckpointStore(rdb)
	trackers := tracker.NewRegistry(tracker.SystemClock(), checkpointStore, logger)

	// --- Services ---
	attendanceService := attendance.NewServiceWithOutbox(db, attendanceRepo, sessionStore, trackers, outboxRepo)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb)
	statsService := stats.NewService(employeeRepo, attendanceRepo, rdb)
	exportService := export.NewService(db, attendanceRepo, outboxRepo)
	preferenceService := preference.NewService(rdb)

	// Directory cache entries go stale when an admin changes a role;
	// the preference subscription evicts them eagerly.
	directory := employee.NewDirectory(employeeRepo, rdb)
	changes, unsubscribe := preferenceService.Subscribe()
	go func() {
		for change := range changes {
			directory.Evict(context.Background(), change.EmployeeID)
		}
	}()

	// --- Handlers ---
	attendanceHandler := attendance.NewHandlerWithRedis(attendanceService, rdb)
	employeeHandler := employee.NewHandler(employeeService)
	statsHandler := stats.NewHandler(statsService)
	exportHandler := export.NewHandler(exportService)
	preferenceHandler := preference.NewHandler(preferenceService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID())
	api.Use(middleware.ContextLogger(logger))
	api.Use(middleware.ExtractIdentity(directory))
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, rdb)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		stats.RegisterRoutes(api, statsHandler, rbacService)
		export.RegisterRoutes(api, exportHandler, rbacService)
		preference.RegisterRoutes(api, preferenceHandler, rbacService)
	}

	cleanup := func() {
		unsubscribe()
		trackers.StopAll()
	}
	return cleanup, nil
}
