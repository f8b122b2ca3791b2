package order

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-order-backend/internal/model"
)

func strPtr(s string) *string { return &s }

func TestValidateCreate(t *testing.T) {
	testCases := []struct {
		name       string
		input      CreateInput
		wantFields []string // violated fields, empty means valid
	}{
		{
			name: "valid full payload",
			input: CreateInput{
				Title:       "Fix Printer",
				Description: strPtr("Paper jam on tray 2"),
				Location:    "Office 101",
				Priority:    "HIGH",
				Status:      "OPEN",
				DueDate:     strPtr("2026-09-30T12:00:00Z"),
				CompletedAt: nil,
			},
		},
		{
			name: "valid minimal payload",
			input: CreateInput{
				Title:    "Fix Printer",
				Location: "Office 101",
				Priority: "HIGH",
				Status:   "OPEN",
			},
		},
		{
			name: "missing required fields",
			input: CreateInput{
				Description: strPtr("only a description"),
			},
			wantFields: []string{"title", "location", "priority", "status"},
		},
		{
			name: "title too long",
			input: CreateInput{
				Title:    strings.Repeat("x", 256),
				Location: "Office 101",
				Priority: "HIGH",
				Status:   "OPEN",
			},
			wantFields: []string{"title"},
		},
		{
			name: "unrecognized priority",
			input: CreateInput{
				Title:    "Fix Printer",
				Location: "Office 101",
				Priority: "INVALID",
				Status:   "OPEN",
			},
			wantFields: []string{"priority"},
		},
		{
			name: "lowercase enum rejected",
			input: CreateInput{
				Title:    "Fix Printer",
				Location: "Office 101",
				Priority: "high",
				Status:   "open",
			},
			wantFields: []string{"priority", "status"},
		},
		{
			name: "unparseable due date",
			input: CreateInput{
				Title:    "Fix Printer",
				Location: "Office 101",
				Priority: "HIGH",
				Status:   "OPEN",
				DueDate:  strPtr("next tuesday"),
			},
			wantFields: []string{"dueDate"},
		},
		{
			name: "unparseable completedAt",
			input: CreateInput{
				Title:       "Fix Printer",
				Location:    "Office 101",
				Priority:    "HIGH",
				Status:      "COMPLETED",
				CompletedAt: strPtr("2026-13-45"),
			},
			wantFields: []string{"completedAt"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateCreate(tc.input)

			if len(tc.wantFields) == 0 {
				require.NoError(t, err)
				assert.Equal(t, model.Priority(tc.input.Priority), got.Priority)
				assert.Equal(t, model.Status(tc.input.Status), got.Status)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tc.wantFields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tc.wantFields), "every violated field, and only those, should be reported")
		})
	}
}

func TestValidateCreate_Normalization(t *testing.T) {
	got, err := ValidateCreate(CreateInput{
		Title:    "  Fix Printer  ",
		Location: " Office 101 ",
		Priority: "URGENT",
		Status:   "IN_PROGRESS",
		DueDate:  strPtr("2026-09-30T12:00:00Z"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Fix Printer", got.Title)
	assert.Equal(t, "Office 101", got.Location)
	assert.Nil(t, got.Description, "unsupplied description stays nil")
	assert.Nil(t, got.CompletedAt)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC), got.DueDate.UTC())
}

func TestValidateCreate_BlankDateIsAbsent(t *testing.T) {
	got, err := ValidateCreate(CreateInput{
		Title:    "Fix Printer",
		Location: "Office 101",
		Priority: "HIGH",
		Status:   "OPEN",
		DueDate:  strPtr("  "),
	})
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
}

func TestValidateUpdate_SubsetOnly(t *testing.T) {
	var in UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Updated"}`), &in))

	patch, err := ValidateUpdate(in)
	require.NoError(t, err)

	require.NotNil(t, patch.Title)
	assert.Equal(t, "Updated", *patch.Title)
	assert.Nil(t, patch.Location)
	assert.Nil(t, patch.Priority)
	assert.Nil(t, patch.Status)
	assert.Nil(t, patch.Description)
	assert.Nil(t, patch.DueDate)
	assert.Nil(t, patch.CompletedAt)
}

func TestValidateUpdate_ExplicitNullClears(t *testing.T) {
	var in UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"description":null,"dueDate":null}`), &in))

	patch, err := ValidateUpdate(in)
	require.NoError(t, err)

	require.NotNil(t, patch.Description, "null description must produce a clear, not an omission")
	assert.False(t, patch.Description.Valid)
	require.NotNil(t, patch.DueDate)
	assert.False(t, patch.DueDate.Valid)
	assert.Nil(t, patch.CompletedAt, "untouched field stays nil")
}

func TestValidateUpdate_NullOnRequiredField(t *testing.T) {
	var in UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":null,"status":null}`), &in))

	_, err := ValidateUpdate(in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "status")
}

func TestValidateUpdate_InvalidValues(t *testing.T) {
	var in UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"priority":"WHENEVER","dueDate":"not a date"}`), &in))

	_, err := ValidateUpdate(in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "priority")
	assert.Contains(t, verr.Fields, "dueDate")
	assert.Len(t, verr.Fields, 2)
}

func TestValidateUpdate_EmptyPayload(t *testing.T) {
	patch, err := ValidateUpdate(UpdateInput{})
	require.NoError(t, err)
	assert.Nil(t, patch.Title)
	assert.Nil(t, patch.Description)
	assert.Nil(t, patch.DueDate)
}

func TestParseFilter(t *testing.T) {
	t.Run("empty values mean unconstrained", func(t *testing.T) {
		filter, err := ParseFilter("", "")
		require.NoError(t, err)
		assert.Nil(t, filter.Status)
		assert.Nil(t, filter.Priority)
	})

	t.Run("values are trimmed and uppercased", func(t *testing.T) {
		filter, err := ParseFilter(" open ", "high")
		require.NoError(t, err)
		require.NotNil(t, filter.Status)
		assert.Equal(t, model.StatusOpen, *filter.Status)
		require.NotNil(t, filter.Priority)
		assert.Equal(t, model.PriorityHigh, *filter.Priority)
	})

	t.Run("unrecognized values fail", func(t *testing.T) {
		_, err := ParseFilter("SOMEDAY", "")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "status")
	})
}

func TestOptionalUnmarshal(t *testing.T) {
	type payload struct {
		Field Optional[string] `json:"field"`
	}

	var absent payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Field.Set)

	var null payload
	require.NoError(t, json.Unmarshal([]byte(`{"field":null}`), &null))
	assert.True(t, null.Field.Set)
	assert.False(t, null.Field.Valid)

	var set payload
	require.NoError(t, json.Unmarshal([]byte(`{"field":"v"}`), &set))
	assert.True(t, set.Field.Set)
	assert.True(t, set.Field.Valid)
	assert.Equal(t, "v", set.Field.Value)
}
