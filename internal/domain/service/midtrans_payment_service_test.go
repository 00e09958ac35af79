package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMidtrans(t *testing.T, handler http.HandlerFunc) *MidtransPaymentService {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mps := NewMidtransPaymentService("server-key", "client-key", false)
	mps.snapURL = srv.URL + "/snap/v1"
	mps.apiURL = srv.URL + "/v2"
	return mps
}

func TestMidtransCreateIntent(t *testing.T) {
	var got midtransSnapRequest
	mps := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/snap/v1/transactions", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "server-key", user)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"snap-token","redirect_url":"https://pay.example/snap"}`))
	})

	intent, err := mps.CreateIntent(context.Background(), 1250, "idr", "buyer-1")
	require.NoError(t, err)

	assert.Equal(t, "snap-token", intent.ClientSecret)
	assert.Equal(t, IntentPending, intent.Status)
	assert.True(t, strings.HasPrefix(intent.ID, "buyer-1."))
	assert.Equal(t, "12.50", got.TransactionDetails.GrossAmount)
	assert.Equal(t, intent.ID, got.TransactionDetails.OrderID)
}

func TestMidtransGetIntent(t *testing.T) {
	mps := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/buyer-1.abc/status", r.URL.Path)
		w.Write([]byte(`{"order_id":"buyer-1.abc","transaction_status":"settlement","gross_amount":"20.00","currency":"IDR"}`))
	})

	intent, err := mps.GetIntent(context.Background(), "buyer-1.abc")
	require.NoError(t, err)

	assert.Equal(t, IntentSucceeded, intent.Status)
	assert.Equal(t, int64(2000), intent.AmountReceived)
	assert.Equal(t, "buyer-1", intent.BuyerID)
	assert.Equal(t, "idr", intent.Currency)
}

func TestMidtransGetIntentPending(t *testing.T) {
	mps := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id":"b.x","transaction_status":"pending","gross_amount":"5.00"}`))
	})

	intent, err := mps.GetIntent(context.Background(), "b.x")
	require.NoError(t, err)
	assert.Equal(t, IntentPending, intent.Status)
	assert.Zero(t, intent.AmountReceived)
}

func TestMidtransAPIError(t *testing.T) {
	mps := newTestMidtrans(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_message":"Transaction doesn't exist."}`))
	})

	_, err := mps.GetIntent(context.Background(), "missing")
	assert.Error(t, err)
}

func TestSandboxSettle(t *testing.T) {
	s := NewSandboxPaymentService()
	intent, err := s.CreateIntent(context.Background(), 500, "usd", "buyer-1")
	require.NoError(t, err)

	got, err := s.GetIntent(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Equal(t, IntentPending, got.Status)

	require.NoError(t, s.Settle(intent.ID))
	got, err = s.GetIntent(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Equal(t, IntentSucceeded, got.Status)
	assert.Equal(t, int64(500), got.AmountReceived)
	assert.Equal(t, "buyer-1", got.BuyerID)
}
