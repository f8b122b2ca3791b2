package order

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"repair-order-backend/internal/model"
	"repair-order-backend/internal/store"
)

const maxTitleLength = 255

// ValidationError reports every violated field of a payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// CreateInput is the payload for creating a repair order.
type CreateInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Location    string  `json:"location"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	DueDate     *string `json:"dueDate"`
	CompletedAt *string `json:"completedAt"`
}

// UpdateInput is the payload for a partial update. Every field is
// optional; a field present but invalid still fails.
type UpdateInput struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Location    Optional[string] `json:"location"`
	Priority    Optional[string] `json:"priority"`
	Status      Optional[string] `json:"status"`
	DueDate     Optional[string] `json:"dueDate"`
	CompletedAt Optional[string] `json:"completedAt"`
}

// ValidateCreate checks a create payload and returns the normalized
// record with unsupplied optional fields left nil. It is a pure
// function of its input.
func ValidateCreate(in CreateInput) (model.RepairOrder, error) {
	fields := make(map[string]string)

	title := strings.TrimSpace(in.Title)
	if title == "" {
		fields["title"] = "is required"
	} else if len(title) > maxTitleLength {
		fields["title"] = fmt.Sprintf("must be at most %d characters", maxTitleLength)
	}

	location := strings.TrimSpace(in.Location)
	if location == "" {
		fields["location"] = "is required"
	}

	priority := model.Priority(in.Priority)
	if in.Priority == "" {
		fields["priority"] = "is required"
	} else if !priority.Valid() {
		fields["priority"] = fmt.Sprintf("unrecognized value %q", in.Priority)
	}

	status := model.Status(in.Status)
	if in.Status == "" {
		fields["status"] = "is required"
	} else if !status.Valid() {
		fields["status"] = fmt.Sprintf("unrecognized value %q", in.Status)
	}

	dueDate := parseDateField(in.DueDate, "dueDate", fields)
	completedAt := parseDateField(in.CompletedAt, "completedAt", fields)

	if len(fields) > 0 {
		return model.RepairOrder{}, &ValidationError{Fields: fields}
	}

	return model.RepairOrder{
		Title:       title,
		Description: in.Description,
		Location:    location,
		Priority:    priority,
		Status:      status,
		DueDate:     dueDate,
		CompletedAt: completedAt,
	}, nil
}

// ValidateUpdate checks an update payload and returns a patch holding
// only the fields the caller supplied. Explicit null on a required
// field is rejected; on a nullable field it is a deliberate clear.
func ValidateUpdate(in UpdateInput) (store.Patch, error) {
	fields := make(map[string]string)
	var patch store.Patch

	if in.Title.Set {
		if !in.Title.Valid {
			fields["title"] = "must not be null"
		} else {
			title := strings.TrimSpace(in.Title.Value)
			switch {
			case title == "":
				fields["title"] = "must not be empty"
			case len(title) > maxTitleLength:
				fields["title"] = fmt.Sprintf("must be at most %d characters", maxTitleLength)
			default:
				patch.Title = &title
			}
		}
	}

	if in.Location.Set {
		if !in.Location.Valid {
			fields["location"] = "must not be null"
		} else {
			location := strings.TrimSpace(in.Location.Value)
			if location == "" {
				fields["location"] = "must not be empty"
			} else {
				patch.Location = &location
			}
		}
	}

	if in.Priority.Set {
		priority := model.Priority(in.Priority.Value)
		if !in.Priority.Valid {
			fields["priority"] = "must not be null"
		} else if !priority.Valid() {
			fields["priority"] = fmt.Sprintf("unrecognized value %q", in.Priority.Value)
		} else {
			patch.Priority = &priority
		}
	}

	if in.Status.Set {
		status := model.Status(in.Status.Value)
		if !in.Status.Valid {
			fields["status"] = "must not be null"
		} else if !status.Valid() {
			fields["status"] = fmt.Sprintf("unrecognized value %q", in.Status.Value)
		} else {
			patch.Status = &status
		}
	}

	if in.Description.Set {
		desc := sql.Null[string]{V: in.Description.Value, Valid: in.Description.Valid}
		patch.Description = &desc
	}

	patch.DueDate = parsePatchDate(in.DueDate, "dueDate", fields)
	patch.CompletedAt = parsePatchDate(in.CompletedAt, "completedAt", fields)

	if len(fields) > 0 {
		return store.Patch{}, &ValidationError{Fields: fields}
	}
	return patch, nil
}

// ParseFilter validates optional list filter values. Values are trimmed
// and uppercased before the enum membership check, so "open" and
// "OPEN " both select OPEN.
func ParseFilter(status, priority string) (store.Filter, error) {
	fields := make(map[string]string)
	var filter store.Filter

	if s := strings.ToUpper(strings.TrimSpace(status)); s != "" {
		st := model.Status(s)
		if !st.Valid() {
			fields["status"] = fmt.Sprintf("unrecognized value %q", status)
		} else {
			filter.Status = &st
		}
	}

	if p := strings.ToUpper(strings.TrimSpace(priority)); p != "" {
		pr := model.Priority(p)
		if !pr.Valid() {
			fields["priority"] = fmt.Sprintf("unrecognized value %q", priority)
		} else {
			filter.Priority = &pr
		}
	}

	if len(fields) > 0 {
		return store.Filter{}, &ValidationError{Fields: fields}
	}
	return filter, nil
}

// parseDateField parses an optional RFC 3339 date string, recording a
// field error when it is present but unparseable. Bad dates are
// rejected rather than coerced to null, on both create and update.
func parseDateField(s *string, field string, fields map[string]string) *time.Time {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*s))
	if err != nil {
		fields[field] = "must be a valid RFC 3339 timestamp"
		return nil
	}
	return &t
}

func parsePatchDate(o Optional[string], field string, fields map[string]string) *sql.Null[time.Time] {
	if !o.Set {
		return nil
	}
	if !o.Valid || strings.TrimSpace(o.Value) == "" {
		return &sql.Null[time.Time]{}
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(o.Value))
	if err != nil {
		fields[field] = "must be a valid RFC 3339 timestamp"
		return nil
	}
	return &sql.Null[time.Time]{V: t, Valid: true}
}
