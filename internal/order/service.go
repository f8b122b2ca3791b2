// Package order contains the repair-order validation rules and the
// service that applies them on top of the store.
package order

import (
	"context"
	"time"

	"repair-order-backend/internal/model"
	"repair-order-backend/internal/store"
)

// Service orchestrates validation and persistence for repair orders.
// Absence of a record surfaces as store.ErrNotFound; invalid payloads
// as *ValidationError.
type Service struct {
	store store.Store
}

// NewService creates a Service backed by the given store.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// List returns orders matching the filter.
func (s *Service) List(ctx context.Context, filter store.Filter) ([]model.RepairOrder, error) {
	return s.store.FindAll(ctx, filter)
}

// Get returns the order with the given id.
func (s *Service) Get(ctx context.Context, id string) (model.RepairOrder, error) {
	return s.store.FindByID(ctx, id)
}

// Create validates the payload and persists a new order, returning the
// record with its generated id and timestamps.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.RepairOrder, error) {
	order, err := ValidateCreate(in)
	if err != nil {
		return model.RepairOrder{}, err
	}
	if err := s.store.Create(ctx, &order); err != nil {
		return model.RepairOrder{}, err
	}
	return order, nil
}

// Update validates the supplied subset of fields and applies it as a
// patch; omitted fields keep their stored values.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (model.RepairOrder, error) {
	patch, err := ValidateUpdate(in)
	if err != nil {
		return model.RepairOrder{}, err
	}
	return s.store.Update(ctx, id, patch)
}

// Delete removes the order with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// ListLate returns orders past their due date and not in a terminal
// status, evaluated against the current instant.
func (s *Service) ListLate(ctx context.Context) ([]model.RepairOrder, error) {
	return s.store.FindLate(ctx, time.Now().UTC())
}
