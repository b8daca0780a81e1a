package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aakifsaf/precision-attendance/internal/attendance"
	"github.com/aakifsaf/precision-attendance/internal/employee"
	"github.com/aakifsaf/precision-attendance/internal/tracker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 30 * time.Second
)

// DashboardResponse is the full admin dashboard payload: headline cards
// plus the two chart datasets.
type DashboardResponse struct {
	Overview     Overview           `json:"overview"`
	Weekly       []WeeklyBucket     `json:"weekly"`
	Distribution StatusDistribution `json:"distribution"`
	GeneratedAt  string             `json:"generated_at"`
}

type Service interface {
	Dashboard(ctx context.Context) (DashboardResponse, error)
	Roster(ctx context.Context) ([]RosterEntry, error)
}

type service struct {
	employees   employee.Repository
	attendances attendance.Repository
	rdb         *redis.Client
	sf          *singleflight.Group
	clock       tracker.Clock
	logger      *zap.Logger
}

func NewService(employees employee.Repository, attendances attendance.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("stats.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("stats.service")
	}
	return &service{
		employees:   employees,
		attendances: attendances,
		rdb:         rdb,
		sf:          &singleflight.Group{},
		clock:       tracker.SystemClock(),
		logger:      l,
	}
}

func NewServiceWithClock(employees employee.Repository, attendances attendance.Repository, rdb *redis.Client, clock tracker.Clock) Service {
	svc := NewService(employees, attendances, rdb).(*service)
	svc.clock = clock
	return svc
}

// Dashboard recomputes the snapshot from scratch on each cache miss.
// 30s staleness is acceptable for a dashboard; singleflight keeps a
// stampede of admins from hammering postgres when the entry expires.
func (s *service) Dashboard(ctx context.Context) (DashboardResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, DashboardCacheKey).Result(); err == nil {
			var resp DashboardResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(DashboardCacheKey, func() (interface{}, error) {
		resp, err := s.computeDashboard(ctx)
		if err != nil {
			return DashboardResponse{}, err
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, DashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
					s.logger.Warn("cache dashboard failed", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return DashboardResponse{}, err
	}

	return v.(DashboardResponse), nil
}

func (s *service) computeDashboard(ctx context.Context) (DashboardResponse, error) {
	now := s.clock.Now()

	total, err := s.employees.Count(ctx)
	if err != nil {
		return DashboardResponse{}, err
	}

	records, err := s.attendances.FindAll(ctx)
	if err != nil {
		return DashboardResponse{}, err
	}

	return DashboardResponse{
		Overview:     ComputeOverview(now, int(total), records),
		Weekly:       ComputeWeekly(now, records),
		Distribution: ComputeDistribution(records),
		GeneratedAt:  now.Format(time.RFC3339),
	}, nil
}

func (s *service) Roster(ctx context.Context) ([]RosterEntry, error) {
	now := s.clock.Now()

	emps, err := s.employees.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.attendances.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return ComputeRoster(now, emps, records), nil
}
