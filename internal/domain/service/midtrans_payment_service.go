package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"microtask/pkg/logger"
)

// MidtransPaymentService talks to the Midtrans Snap and Core APIs over HTTP.
// The buyer id travels inside the order id because the status endpoint does
// not echo custom fields back.
type MidtransPaymentService struct {
	serverKey    string
	clientKey    string
	isProduction bool
	snapURL      string
	apiURL       string
	httpClient   *http.Client
}

func NewMidtransPaymentService(serverKey, clientKey string, isProduction bool) *MidtransPaymentService {
	snapURL := "https://app.sandbox.midtrans.com/snap/v1"
	apiURL := "https://api.sandbox.midtrans.com/v2"
	if isProduction {
		snapURL = "https://app.midtrans.com/snap/v1"
		apiURL = "https://api.midtrans.com/v2"
	}

	return &MidtransPaymentService{
		serverKey:    serverKey,
		clientKey:    clientKey,
		isProduction: isProduction,
		snapURL:      snapURL,
		apiURL:       apiURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type midtransSnapRequest struct {
	TransactionDetails midtransTransactionDetails `json:"transaction_details"`
	CustomFields       string                     `json:"custom_field1,omitempty"`
}

type midtransTransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount string `json:"gross_amount"`
}

type midtransSnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type midtransStatusResponse struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	GrossAmount       string `json:"gross_amount"`
	Currency          string `json:"currency"`
}

const midtransOrderSeparator = "."

func (mps *MidtransPaymentService) Name() string {
	return "midtrans"
}

func (mps *MidtransPaymentService) CreateIntent(ctx context.Context, amountCents int64, currency, buyerID string) (*PaymentIntent, error) {
	orderID := buyerID + midtransOrderSeparator + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	gross := decimal.New(amountCents, -2)

	snapReq := midtransSnapRequest{
		TransactionDetails: midtransTransactionDetails{
			OrderID:     orderID,
			GrossAmount: gross.StringFixed(2),
		},
		CustomFields: buyerID,
	}

	jsonData, err := json.Marshal(snapReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, mps.snapURL+"/transactions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	body, status, err := mps.do(httpReq)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		logger.Warn("Midtrans API error: %s", string(body))
		return nil, fmt.Errorf("midtrans API error: %s", string(body))
	}

	var snapResp midtransSnapResponse
	if err := json.Unmarshal(body, &snapResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}

	logger.Debug("Midtrans payment created for order %s", orderID)
	return &PaymentIntent{
		ID:           orderID,
		ClientSecret: snapResp.Token,
		RedirectURL:  snapResp.RedirectURL,
		Status:       IntentPending,
		Amount:       amountCents,
		Currency:     currency,
		BuyerID:      buyerID,
	}, nil
}

func (mps *MidtransPaymentService) GetIntent(ctx context.Context, orderID string) (*PaymentIntent, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/status", mps.apiURL, orderID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	body, status, err := mps.do(httpReq)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		logger.Warn("Midtrans status API error: %s", string(body))
		return nil, fmt.Errorf("midtrans status API error: %s", string(body))
	}

	var statusResp midtransStatusResponse
	if err := json.Unmarshal(body, &statusResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}

	intentStatus := IntentPending
	switch statusResp.TransactionStatus {
	case "settlement", "capture":
		intentStatus = IntentSucceeded
	case "cancel", "deny", "expire":
		intentStatus = IntentFailed
	}

	gross, err := decimal.NewFromString(statusResp.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid gross_amount %q: %v", statusResp.GrossAmount, err)
	}
	cents := gross.Shift(2).IntPart()

	intent := &PaymentIntent{
		ID:       orderID,
		Status:   intentStatus,
		Amount:   cents,
		Currency: strings.ToLower(statusResp.Currency),
	}
	if intentStatus == IntentSucceeded {
		intent.AmountReceived = cents
	}
	if i := strings.LastIndex(orderID, midtransOrderSeparator); i > 0 {
		intent.BuyerID = orderID[:i]
	}

	logger.Debug("Midtrans status %s -> %s", orderID, intentStatus)
	return intent, nil
}

func (mps *MidtransPaymentService) do(req *http.Request) ([]byte, int, error) {
	authHeader := base64.StdEncoding.EncodeToString([]byte(mps.serverKey + ":"))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+authHeader)

	resp, err := mps.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %v", err)
	}
	return body, resp.StatusCode, nil
}
