package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// The role set is fixed at staff/admin, so the model and policy are
// embedded instead of loaded from a policy store.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policy rows: role, resource, action
var policies = [][]string{
	{RoleStaff, "attendance", "create"},
	{RoleStaff, "attendance", "read"},
	{RoleStaff, "session", "read"},
	{RoleStaff, "preference", "read"},
	{RoleStaff, "preference", "write"},

	{RoleAdmin, "roster", "read"},
	{RoleAdmin, "stats", "read"},
	{RoleAdmin, "report", "create"},
	{RoleAdmin, "report", "read"},
	{RoleAdmin, "employee", "create"},
	{RoleAdmin, "employee", "read"},
	{RoleAdmin, "employee", "update"},
	{RoleAdmin, "employee", "delete"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	// admin inherits every staff permission
	if _, err := enforcer.AddGroupingPolicy(RoleAdmin, RoleStaff); err != nil {
		return nil, err
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(role, resource, action)
}
