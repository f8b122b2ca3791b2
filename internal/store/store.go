package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"repair-order-backend/internal/model"
)

// ErrNotFound is returned when an operation targets an order or
// subscription that does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for all database operations.
type Store interface {
	FindAll(ctx context.Context, filter Filter) ([]model.RepairOrder, error)
	FindByID(ctx context.Context, id string) (model.RepairOrder, error)
	Create(ctx context.Context, order *model.RepairOrder) error
	Update(ctx context.Context, id string, patch Patch) (model.RepairOrder, error)
	Delete(ctx context.Context, id string) error
	FindLate(ctx context.Context, now time.Time) ([]model.RepairOrder, error)

	UpsertSubscription(ctx context.Context, sub model.PushSubscription, orderIDs []string) error
	FindSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForOrder(ctx context.Context, orderID string) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// FindAll returns every order matching the filter. An unset filter
// dimension is unconstrained.
func (s *gormStore) FindAll(ctx context.Context, filter Filter) ([]model.RepairOrder, error) {
	q := s.db.WithContext(ctx)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", *filter.Priority)
	}

	var orders []model.RepairOrder
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list repair orders: %w", err)
	}
	return orders, nil
}

func (s *gormStore) FindByID(ctx context.Context, id string) (model.RepairOrder, error) {
	var order model.RepairOrder
	err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RepairOrder{}, ErrNotFound
	}
	if err != nil {
		return model.RepairOrder{}, fmt.Errorf("failed to fetch repair order %s: %w", id, err)
	}
	return order, nil
}

// Create persists a new order. The ID is assigned by the model's
// BeforeCreate hook, timestamps by GORM.
func (s *gormStore) Create(ctx context.Context, order *model.RepairOrder) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create repair order: %w", err)
	}
	return nil
}

// Update applies a partial patch to the order with the given id and
// returns the updated record. UpdatedAt refreshes on every call, even
// when the patch is empty.
func (s *gormStore) Update(ctx context.Context, id string, patch Patch) (model.RepairOrder, error) {
	var updated model.RepairOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.RepairOrder
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&existing).Updates(patch.columns()).Error; err != nil {
			return err
		}

		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.RepairOrder{}, ErrNotFound
		}
		return model.RepairOrder{}, fmt.Errorf("failed to update repair order %s: %w", id, err)
	}
	return updated, nil
}

func (s *gormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.RepairOrder{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete repair order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindLate returns orders whose due date has passed as of now and whose
// status is not terminal. Lateness is evaluated at query time, never stored.
func (s *gormStore) FindLate(ctx context.Context, now time.Time) ([]model.RepairOrder, error) {
	var orders []model.RepairOrder
	err := s.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date < ? AND status NOT IN ?", now, model.TerminalStatuses).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list late repair orders: %w", err)
	}
	return orders, nil
}

// UpsertSubscription creates or replaces a push subscription and sets its
// watched orders to exactly orderIDs.
func (s *gormStore) UpsertSubscription(ctx context.Context, sub model.PushSubscription, orderIDs []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			return err
		}

		var orders []model.RepairOrder
		if len(orderIDs) > 0 {
			if err := tx.Find(&orders, "id IN ?", orderIDs).Error; err != nil {
				return err
			}
		}

		return tx.Model(&sub).Association("Orders").Replace(&orders)
	})
	if err != nil {
		return fmt.Errorf("failed to upsert subscription %s: %w", sub.Endpoint, err)
	}
	return nil
}

func (s *gormStore) FindSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Orders").First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PushSubscription{}, ErrNotFound
	}
	if err != nil {
		return model.PushSubscription{}, fmt.Errorf("failed to fetch subscription %s: %w", endpoint, err)
	}
	return sub, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", endpoint, err)
	}
	return nil
}

// SubscriptionsForOrder returns subscriptions watching the given order,
// plus subscriptions with no watched orders, which receive every alert.
func (s *gormStore) SubscriptionsForOrder(ctx context.Context, orderID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Where("endpoint IN (SELECT push_subscription_endpoint FROM subscription_order_mapping WHERE repair_order_id = ?)"+
			" OR endpoint NOT IN (SELECT push_subscription_endpoint FROM subscription_order_mapping)", orderID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions for order %s: %w", orderID, err)
	}
	return subs, nil
}
