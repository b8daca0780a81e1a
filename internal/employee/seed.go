package employee

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// demoRoster mirrors the staff directory used in demo environments plus
// one admin persona so both dashboards are reachable out of the box.
var demoRoster = []Employee{
	{FullName: "Alex Johnson", Email: "alex@company.com", Role: "staff", Department: "Engineering", Avatar: "AJ"},
	{FullName: "Sarah Williams", Email: "sarah@company.com", Role: "staff", Department: "Marketing", Avatar: "SW"},
	{FullName: "Michael Chen", Email: "michael@company.com", Role: "staff", Department: "Engineering", Avatar: "MC"},
	{FullName: "Jessica Brown", Email: "jessica@company.com", Role: "staff", Department: "HR", Avatar: "JB"},
	{FullName: "David Miller", Email: "david@company.com", Role: "staff", Department: "Sales", Avatar: "DM"},
	{FullName: "Emma Wilson", Email: "emma@company.com", Role: "staff", Department: "Design", Avatar: "EW"},
	{FullName: "Priya Raman", Email: "priya@company.com", Role: "admin", Department: "Operations", Avatar: "PR"},
}

// SeedDemoRoster inserts the demo employees once. Safe to call on every
// boot: it skips when the directory already has rows.
func SeedDemoRoster(ctx context.Context, repo Repository, logger *zap.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed roster count: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i := range demoRoster {
		empl := demoRoster[i]
		empl.ID = uuid.New()
		empl.BadgeNumber = fmt.Sprintf("EMP-%06d", i+1)
		if err := repo.Create(ctx, &empl); err != nil {
			return fmt.Errorf("seed roster create %s: %w", empl.Email, err)
		}
	}

	logger.Info("demo roster seeded", zap.Int("employees", len(demoRoster)))
	return nil
}
