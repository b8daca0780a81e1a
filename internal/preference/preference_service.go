package preference

import (
	"context"
	"net/http"
	"sync"

	"github.com/aakifsaf/precision-attendance/internal/rbac"
	"github.com/aakifsaf/precision-attendance/internal/shared/apperror"
	"github.com/aakifsaf/precision-attendance/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const roleKeyPrefix = "dashboard:role:"

var ErrInvalidRole = apperror.New(
	apperror.CodeInvalidInput,
	"Role must be staff or admin",
	http.StatusBadRequest,
)

// RoleChange is delivered to subscribers whenever an employee switches
// their dashboard role.
type RoleChange struct {
	EmployeeID string
	Role       string
}

type Service interface {
	GetRole(ctx context.Context, employeeID string) (string, error)
	SetRole(ctx context.Context, employeeID, role string) error
	// Subscribe registers for role changes. The returned cancel func
	// must be called when the subscriber is done; the channel is closed
	// by it.
	Subscribe() (<-chan RoleChange, func())
}

type service struct {
	rdb    *redis.Client
	logger *zap.Logger

	mu   sync.Mutex
	subs map[int]chan RoleChange
	next int
}

func NewService(rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("preference.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("preference.service")
	}
	return &service{
		rdb:    rdb,
		logger: l,
		subs:   make(map[int]chan RoleChange),
	}
}

// GetRole returns the persisted dashboard role, defaulting to staff when
// nothing was ever stored.
func (s *service) GetRole(ctx context.Context, employeeID string) (string, error) {
	role, err := s.rdb.Get(ctx, roleKeyPrefix+employeeID).Result()
	if err == redis.Nil {
		return rbac.RoleStaff, nil
	}
	if err != nil {
		return "", err
	}
	if role != rbac.RoleStaff && role != rbac.RoleAdmin {
		// Unknown stored value degrades to the default instead of
		// breaking the dashboard.
		return rbac.RoleStaff, nil
	}
	return role, nil
}

func (s *service) SetRole(ctx context.Context, employeeID, role string) error {
	if role != rbac.RoleStaff && role != rbac.RoleAdmin {
		return ErrInvalidRole
	}

	if err := s.rdb.Set(ctx, roleKeyPrefix+employeeID, role, 0).Err(); err != nil {
		return err
	}

	s.logger.Info("dashboard role changed",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee_id", employeeID),
		zap.String("role", role),
	)

	s.broadcast(RoleChange{EmployeeID: employeeID, Role: role})
	return nil
}

func (s *service) Subscribe() (<-chan RoleChange, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan RoleChange, 8)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// broadcast never blocks a role change on a slow subscriber; the change
// is dropped for that subscriber instead.
func (s *service) broadcast(change RoleChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- change:
		default:
			s.logger.Warn("role change dropped, slow subscriber",
				zap.String("employee_id", change.EmployeeID),
			)
		}
	}
}
