package rbac

import (
	"sync"

	"oklok/internal/domain"

	"github.com/casbin/casbin/v2"
)

// Role names as stored on the user record.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleStaff      = "staff"
	RoleContractor = "contractor"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
	CanReadAll(role string) bool
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(enforcer *casbin.Enforcer) (Service, error) {
	s := &service{enforcer: enforcer}
	if err := s.loadPolicy(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadPolicy installs the fixed permission matrix: admin > manager >
// staff for write scope on users, time entries, reports and exports;
// staff and contractors are limited to their own ledger records.
func (s *service) loadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()

	policies := [][]string{
		{RoleStaff, "time_entries", "create"},
		{RoleStaff, "time_entries", "read_own"},
		{RoleContractor, "time_entries", "create"},
		{RoleContractor, "time_entries", "read_own"},
		{RoleManager, "time_entries", "read"},
		{RoleManager, "time_entries", "update"},
		{RoleManager, "time_entries", "approve"},
		{RoleManager, "reports", "read"},
		{RoleManager, "exports", "read"},
		{RoleManager, "users", "read"},
		{RoleAdmin, "users", "create"},
		{RoleAdmin, "users", "update"},
		{RoleAdmin, "users", "deactivate"},
		{RoleAdmin, "tenants", "read"},
		{RoleAdmin, "tenants", "update"},
	}
	for _, p := range policies {
		if _, err := s.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	groupings := [][]string{
		{RoleAdmin, RoleManager},
		{RoleManager, RoleStaff},
	}
	for _, g := range groupings {
		if _, err := s.enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}

func (s *service) CanReadAll(role string) bool {
	allowed, err := s.Enforce(domain.EnforceRequest{
		Role:     role,
		Resource: "time_entries",
		Action:   "read",
	})
	if err != nil {
		return false
	}
	return allowed
}
