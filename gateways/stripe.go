package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// StripeGateway creates hosted checkout sessions and verifies them by
// retrieving the session's payment_status.
type StripeGateway struct {
	SecretKey   string
	FrontendURL string
	BaseURL     string
	Client      *http.Client
}

func NewStripeGateway(secretKey, frontendURL string) *StripeGateway {
	return &StripeGateway{
		SecretKey:   secretKey,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
		BaseURL:     stripeAPIBase,
		Client:      defaultHTTPClient(),
	}
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) do(ctx context.Context, method, path string, form url.Values) (map[string]interface{}, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("stripe returned non-JSON response: %w", err)
	}
	if resp.StatusCode >= 400 {
		msg := "unknown error"
		if e, ok := parsed["error"].(map[string]interface{}); ok {
			if m, ok := e["message"].(string); ok {
				msg = m
			}
		}
		return nil, fmt.Errorf("stripe error (%d): %s", resp.StatusCode, msg)
	}
	return parsed, nil
}

func (g *StripeGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeSession, error) {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = "usd"
	}

	form := url.Values{}
	form.Set("payment_method_types[]", "card")
	form.Set("mode", "payment")
	form.Set("success_url", g.FrontendURL+"/success?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", g.FrontendURL+"/cancel")
	if req.CustomerEmail != "" {
		form.Set("customer_email", req.CustomerEmail)
	}
	form.Set("line_items[0][price_data][currency]", currency)
	form.Set("line_items[0][price_data][product_data][name]", "Booking for listing")
	// Stripe expects minor units; the amount is multiplied by 100 for
	// every currency, matching the original checkout behavior.
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(int64(math.Round(req.Amount*100)), 10))
	form.Set("line_items[0][quantity]", "1")
	for k, v := range req.Metadata {
		form.Set("metadata["+k+"]", v)
	}
	if req.Reference != "" {
		form.Set("metadata[reference]", req.Reference)
	}

	parsed, err := g.do(ctx, http.MethodPost, "/checkout/sessions", form)
	if err != nil {
		return nil, err
	}

	id, _ := parsed["id"].(string)
	redirect, _ := parsed["url"].(string)
	if id == "" {
		return nil, fmt.Errorf("stripe session response missing id")
	}
	return &ChargeSession{TransactionID: id, RedirectURL: redirect, Raw: parsed}, nil
}

func (g *StripeGateway) VerifyCharge(ctx context.Context, transactionID string, _ map[string]string) (*VerifyResult, error) {
	parsed, err := g.do(ctx, http.MethodGet, "/checkout/sessions/"+url.PathEscape(transactionID), nil)
	if err != nil {
		return nil, err
	}
	status, _ := parsed["payment_status"].(string)
	return &VerifyResult{Verified: status == "paid", Raw: parsed}, nil
}
