package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/poolmart/pool-settlement-service/internal/domain"
)

// PaystackGateway implements the charge capability against a
// Paystack-compatible HTTP API. Amounts cross the wire in minor units,
// matching the ledger.
type PaystackGateway struct {
	BaseURL   string
	SecretKey string
	client    *http.Client
}

func NewPaystackGateway(baseURL, secretKey string) *PaystackGateway {
	return &PaystackGateway{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type initializeRequest struct {
	Reference string `json:"reference"`
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Channel   string `json:"channel,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference string    `json:"reference"`
		Status    string    `json:"status"`
		Amount    int64     `json:"amount"`
		Channel   string    `json:"channel"`
		PaidAt    time.Time `json:"paid_at"`
	} `json:"data"`
}

type refundRequest struct {
	Transaction  string `json:"transaction"`
	Amount       int64  `json:"amount"`
	CustomerNote string `json:"customer_note,omitempty"`
}

type errorResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func (g *PaystackGateway) Charge(ctx context.Context, reference, email, method string, amount int64) (*domain.ChargeHandle, error) {
	body, err := json.Marshal(initializeRequest{
		Reference: reference,
		Email:     email,
		Amount:    amount,
		Channel:   method,
	})
	if err != nil {
		return nil, err
	}

	respBody, err := g.do(ctx, http.MethodPost, "/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	var initResp initializeResponse
	if err := json.Unmarshal(respBody, &initResp); err != nil {
		return nil, err
	}
	if !initResp.Status {
		return nil, errors.New(initResp.Message)
	}
	return &domain.ChargeHandle{
		Reference:        initResp.Data.Reference,
		AuthorizationURL: initResp.Data.AuthorizationURL,
		AccessCode:       initResp.Data.AccessCode,
	}, nil
}

func (g *PaystackGateway) Verify(ctx context.Context, reference string) (*domain.VerifyResult, error) {
	respBody, err := g.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}

	var verResp verifyResponse
	if err := json.Unmarshal(respBody, &verResp); err != nil {
		return nil, err
	}
	if !verResp.Status {
		return nil, errors.New(verResp.Message)
	}
	return &domain.VerifyResult{
		Reference: verResp.Data.Reference,
		Success:   verResp.Data.Status == "success",
		Amount:    verResp.Data.Amount,
		Channel:   verResp.Data.Channel,
		PaidAt:    verResp.Data.PaidAt,
	}, nil
}

func (g *PaystackGateway) Refund(ctx context.Context, reference string, amount int64, reason string) error {
	body, err := json.Marshal(refundRequest{
		Transaction:  reference,
		Amount:       amount,
		CustomerNote: reason,
	})
	if err != nil {
		return err
	}

	_, err = g.do(ctx, http.MethodPost, "/refund", body)
	return err
}

func (g *PaystackGateway) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.SecretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	response, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBodyBytes, nil
	}
	var errResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil {
		return nil, fmt.Errorf("gateway returned status %d", response.StatusCode)
	}
	return nil, errors.New(errResp.Message)
}
