package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCharge_SendsAuthAndAmount(t *testing.T) {
	var gotAuth string
	var gotReq initializeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.example/abc",
				"access_code":       "abc",
				"reference":         gotReq.Reference,
			},
		})
	}))
	defer srv.Close()

	gw := NewPaystackGateway(srv.URL, "sk_test_secret")
	handle, err := gw.Charge(context.Background(), "ref-1", "buyer@example.com", "card", 510_000)
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if gotAuth != "Bearer sk_test_secret" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if gotReq.Amount != 510_000 || gotReq.Reference != "ref-1" {
		t.Fatalf("request body wrong: %+v", gotReq)
	}
	if handle.AuthorizationURL != "https://checkout.example/abc" {
		t.Fatalf("handle = %+v", handle)
	}
}

func TestCharge_GatewayDecline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "Invalid amount"})
	}))
	defer srv.Close()

	gw := NewPaystackGateway(srv.URL, "sk_test_secret")
	_, err := gw.Charge(context.Background(), "ref-1", "buyer@example.com", "card", -1)
	if err == nil || !strings.Contains(err.Error(), "Invalid amount") {
		t.Fatalf("expected gateway message, got %v", err)
	}
}

func TestVerify_MapsOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/ref-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"reference": "ref-1",
				"status":    "success",
				"amount":    510_000,
				"channel":   "card",
			},
		})
	}))
	defer srv.Close()

	gw := NewPaystackGateway(srv.URL, "sk_test_secret")
	result, err := gw.Verify(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.Success || result.Amount != 510_000 {
		t.Fatalf("result = %+v", result)
	}
}

func TestVerify_AbandonedChargeNotSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"reference": "ref-1",
				"status":    "abandoned",
				"amount":    510_000,
			},
		})
	}))
	defer srv.Close()

	gw := NewPaystackGateway(srv.URL, "sk_test_secret")
	result, err := gw.Verify(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Success {
		t.Fatalf("abandoned charge reported as success")
	}
}

func TestRefund_PostsTransaction(t *testing.T) {
	var gotReq refundRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/refund" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]any{"status": true, "message": "Refund queued"})
	}))
	defer srv.Close()

	gw := NewPaystackGateway(srv.URL, "sk_test_secret")
	if err := gw.Refund(context.Background(), "ref-1", 200_000, "dispute resolved"); err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if gotReq.Transaction != "ref-1" || gotReq.Amount != 200_000 {
		t.Fatalf("refund body wrong: %+v", gotReq)
	}
}
