package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutSubscriptionInvalidBody(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/subscriptions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
}

func TestSubscriptionLifecycle(t *testing.T) {
	router := setupRouter(t)

	created := createOrder(t, router,
		`{"title":"Fix Printer","location":"Office 101","priority":"HIGH","status":"OPEN"}`)

	endpoint := "https://push.example.com/sub-1"
	put := fmt.Sprintf(`{"endpoint":%q,"p256dh":"key","auth":"secret","subscribed_orders":[%q]}`, endpoint, created.ID)
	w := doJSON(t, router, http.MethodPut, "/api/subscriptions", put)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/subscriptions?endpoint="+url.QueryEscape(endpoint), "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		SubscribedOrders []string `json:"subscribed_orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{created.ID}, body.SubscribedOrders)

	w = doJSON(t, router, http.MethodDelete, "/api/subscriptions", fmt.Sprintf(`{"endpoint":%q}`, endpoint))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/subscriptions?endpoint="+url.QueryEscape(endpoint), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSubscriptionRequiresEndpoint(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/subscriptions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
