package store

import (
	"database/sql"
	"time"

	"repair-order-backend/internal/model"
)

// Filter restricts FindAll to orders matching the set dimensions.
// A nil field leaves that dimension unconstrained.
type Filter struct {
	Status   *model.Status
	Priority *model.Priority
}

// Patch describes a partial update. A nil field is left untouched.
// For the nullable columns, a set field with Valid=false clears the
// stored value.
type Patch struct {
	Title       *string
	Location    *string
	Priority    *model.Priority
	Status      *model.Status
	Description *sql.Null[string]
	DueDate     *sql.Null[time.Time]
	CompletedAt *sql.Null[time.Time]
}

// columns translates the patch into a GORM update map. UpdatedAt is
// always included so empty patches still refresh it.
func (p Patch) columns() map[string]any {
	cols := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Priority != nil {
		cols["priority"] = *p.Priority
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.Description != nil {
		cols["description"] = nullable(*p.Description)
	}
	if p.DueDate != nil {
		cols["due_date"] = nullable(*p.DueDate)
	}
	if p.CompletedAt != nil {
		cols["completed_at"] = nullable(*p.CompletedAt)
	}
	return cols
}

func nullable[T any](v sql.Null[T]) any {
	if !v.Valid {
		return nil
	}
	return v.V
}
