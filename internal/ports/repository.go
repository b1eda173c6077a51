package ports

import (
	"context"

	"swingplanner/internal/domain"
)

// WorksheetRepository stores named snapshots of calculator inputs and targets.
type WorksheetRepository interface {
	// Save inserts the worksheet, or replaces the one with the same name.
	// It assigns ID and timestamps on the passed worksheet.
	Save(ctx context.Context, ws *domain.Worksheet) error
	// FindByName retrieves a worksheet by name.
	// Returns nil, nil if not found.
	FindByName(ctx context.Context, name string) (*domain.Worksheet, error)
	// FindAll retrieves all worksheets, most recently updated first.
	FindAll(ctx context.Context) ([]*domain.Worksheet, error)
	// Delete removes a worksheet by name. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, name string) error
}
