package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/sirupsen/logrus"
)

const defaultTimeout = 10 * time.Second

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type HTTPClient struct {
	BaseURL    string
	KeyID      string
	KeySecret  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewHTTPClient(baseURL, keyID, keySecret string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		KeyID:      keyID,
		KeySecret:  keySecret,
		Timeout:    timeout,
		HTTPClient: &http.Client{},
	}
}

// CreateOrder registers an order with the gateway. Every failure, including a
// timeout, is reported as domain.ErrGatewayUnavailable.
func (c *HTTPClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*domain.GatewayOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	requestBodyBytes, err := json.Marshal(createOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode order: %v", domain.ErrGatewayUnavailable, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/orders", bytes.NewReader(requestBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrGatewayUnavailable, err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.SetBasicAuth(c.KeyID, c.KeySecret)

	response, err := c.HTTPClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer response.Body.Close()

	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrGatewayUnavailable, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var errResp errorResponse
		_ = json.Unmarshal(responseBodyBytes, &errResp)
		logrus.WithFields(logrus.Fields{
			"status":      response.StatusCode,
			"code":        errResp.Error.Code,
			"description": errResp.Error.Description,
		}).Warn("gateway rejected order creation")
		return nil, fmt.Errorf("%w: gateway responded %d %s", domain.ErrGatewayUnavailable, response.StatusCode, errResp.Error.Description)
	}

	var order orderResponse
	if err := json.Unmarshal(responseBodyBytes, &order); err != nil {
		return nil, fmt.Errorf("%w: decode order: %v", domain.ErrGatewayUnavailable, err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: gateway returned no order id", domain.ErrGatewayUnavailable)
	}

	return &domain.GatewayOrder{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	}, nil
}
