package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	paypalSandboxBase = "https://api.sandbox.paypal.com"
	paypalLiveBase    = "https://api.paypal.com"
)

// PayPalGateway drives the classic payments API: create a sale payment,
// send the payer to the approval URL, execute on return.
type PayPalGateway struct {
	ClientID string
	Secret   string
	BaseURL  string
	// Where the payer lands after approving/cancelling.
	ReturnURL string
	CancelURL string
	Client    *http.Client
}

func NewPayPalGateway(clientID, secret, mode, baseAppURL string) *PayPalGateway {
	apiBase := paypalSandboxBase
	if strings.EqualFold(mode, "live") {
		apiBase = paypalLiveBase
	}
	base := strings.TrimRight(baseAppURL, "/")
	return &PayPalGateway{
		ClientID:  clientID,
		Secret:    secret,
		BaseURL:   apiBase,
		ReturnURL: base + "/api/v1/payments/paypal/success",
		CancelURL: base + "/api/v1/payments/paypal/cancel",
		Client:    defaultHTTPClient(),
	}
}

func (g *PayPalGateway) Name() string { return "paypal" }

func (g *PayPalGateway) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.BaseURL+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.ClientID, g.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 || parsed.AccessToken == "" {
		return "", fmt.Errorf("paypal token error (%d)", resp.StatusCode)
	}
	return parsed.AccessToken, nil
}

func (g *PayPalGateway) call(ctx context.Context, path string, payload interface{}) (map[string]interface{}, error) {
	token, err := g.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("paypal returned non-JSON response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("paypal error (%d): %s", resp.StatusCode, string(raw))
	}
	return parsed, nil
}

func (g *PayPalGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeSession, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	// PayPal takes the amount as a decimal string, unconverted.
	payload := map[string]interface{}{
		"intent": "sale",
		"payer":  map[string]string{"payment_method": "paypal"},
		"redirect_urls": map[string]string{
			"return_url": g.ReturnURL,
			"cancel_url": g.CancelURL,
		},
		"transactions": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency": currency,
					"total":    fmt.Sprintf("%.2f", req.Amount),
				},
				"description": "Booking payment for listing " + req.Reference,
			},
		},
	}

	parsed, err := g.call(ctx, "/v1/payments/payment", payload)
	if err != nil {
		return nil, err
	}

	id, _ := parsed["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("paypal payment response missing id")
	}

	approvalURL := ""
	if links, ok := parsed["links"].([]interface{}); ok {
		for _, l := range links {
			link, ok := l.(map[string]interface{})
			if !ok {
				continue
			}
			if rel, _ := link["rel"].(string); rel == "approval_url" {
				approvalURL, _ = link["href"].(string)
			}
		}
	}
	if approvalURL == "" {
		return nil, fmt.Errorf("paypal approval url not found")
	}

	return &ChargeSession{TransactionID: id, RedirectURL: approvalURL, Raw: parsed}, nil
}

// VerifyCharge executes the approved payment. proof carries "payer_id"
// from the return redirect.
func (g *PayPalGateway) VerifyCharge(ctx context.Context, transactionID string, proof map[string]string) (*VerifyResult, error) {
	payerID := proof["payer_id"]
	if payerID == "" {
		return &VerifyResult{Verified: false}, nil
	}

	parsed, err := g.call(ctx, "/v1/payments/payment/"+transactionID+"/execute",
		map[string]string{"payer_id": payerID})
	if err != nil {
		return nil, err
	}
	state, _ := parsed["state"].(string)
	return &VerifyResult{Verified: state == "approved", Raw: parsed}, nil
}
