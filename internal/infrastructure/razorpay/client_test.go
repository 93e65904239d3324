package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_key", user)
		assert.Equal(t, "rzp_secret", pass)

		var body createOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(1000), body.Amount)
		assert.Equal(t, "INR", body.Currency)
		assert.Equal(t, "rcpt_1", body.Receipt)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc","entity":"order","amount":1000,"currency":"INR","receipt":"rcpt_1","status":"created"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL+"/", "rzp_key", "rzp_secret", time.Second)

	order, err := client.CreateOrder(context.Background(), 1000, "INR", "rcpt_1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(1000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "created", order.Status)
}

func TestHTTPClient_CreateOrder_FailsClosed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non 2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
			},
		},
		{
			name: "empty order id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"amount":1000,"currency":"INR"}`))
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewHTTPClient(server.URL, "rzp_key", "rzp_secret", time.Second)
			order, err := client.CreateOrder(context.Background(), 1000, "INR", "rcpt_1")
			assert.Nil(t, order)
			assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
		})
	}
}

func TestHTTPClient_CreateOrder_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewHTTPClient(server.URL, "rzp_key", "rzp_secret", 50*time.Millisecond)

	start := time.Now()
	_, err := client.CreateOrder(context.Background(), 1000, "INR", "rcpt_1")
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPClient_CreateOrder_Unreachable(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:1", "rzp_key", "rzp_secret", time.Second)
	_, err := client.CreateOrder(context.Background(), 1000, "INR", "rcpt_1")
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}
