package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"repair-order-backend/internal/order"
	"repair-order-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     *order.Service
	store   store.Store
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(svc *order.Service, s store.Store, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		svc:     svc,
		store:   s,
		webpush: webpushOptions,
	}
}
