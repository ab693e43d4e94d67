package gateways

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
)

const razorpayAPIBase = "https://api.razorpay.com/v1"

// RazorpayGateway creates orders; verification is a local HMAC check over
// "orderId|paymentId" with the shared secret, no network call.
type RazorpayGateway struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Client    *http.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		KeyID:     keyID,
		KeySecret: keySecret,
		BaseURL:   razorpayAPIBase,
		Client:    defaultHTTPClient(),
	}
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

func (g *RazorpayGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeSession, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "INR"
	}

	payload := map[string]interface{}{
		// Paisa conversion.
		"amount":   int64(math.Round(req.Amount * 100)),
		"currency": currency,
		"receipt":  req.Reference,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(g.KeyID, g.KeySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("razorpay returned non-JSON response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("razorpay error (%d): %s", resp.StatusCode, string(raw))
	}

	id, _ := parsed["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}
	return &ChargeSession{TransactionID: id, Raw: parsed}, nil
}

// VerifyCharge recomputes the order signature. proof carries "payment_id"
// and "signature" from the client-side checkout callback.
func (g *RazorpayGateway) VerifyCharge(_ context.Context, transactionID string, proof map[string]string) (*VerifyResult, error) {
	paymentID := proof["payment_id"]
	signature := proof["signature"]
	if paymentID == "" || signature == "" {
		return &VerifyResult{Verified: false}, nil
	}

	expected := RazorpaySignature(transactionID, paymentID, g.KeySecret)
	ok := subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
	return &VerifyResult{Verified: ok}, nil
}

// RazorpaySignature is HMAC-SHA256 over "orderId|paymentId", hex encoded.
func RazorpaySignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
