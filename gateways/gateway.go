// Package gateways abstracts the three payment providers behind a uniform
// create/verify contract. Each adapter is a thin HTTP client around the
// provider's REST API; amount unit conversion is provider-specific and
// happens inside the adapter.
package gateways

import (
	"context"
	"errors"
	"net/http"
	"time"
)

type ChargeRequest struct {
	Amount        float64
	Currency      string
	CustomerEmail string
	// Reference identifies what is being paid for (listing id / receipt).
	Reference string
	Metadata  map[string]string
}

type ChargeSession struct {
	// TransactionID is the provider's charge/session/order id; it becomes
	// the payment ledger's external transaction id.
	TransactionID string
	// RedirectURL is where the client completes the charge. Empty for
	// providers that are driven client-side (razorpay order flow).
	RedirectURL string
	Raw         map[string]interface{}
}

type VerifyResult struct {
	Verified bool
	Raw      map[string]interface{}
}

type Gateway interface {
	Name() string
	CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeSession, error)
	// VerifyCharge checks one charge. proof carries provider-specific
	// material (razorpay payment id + signature, paypal payer id).
	VerifyCharge(ctx context.Context, transactionID string, proof map[string]string) (*VerifyResult, error)
}

var ErrUnsupportedGateway = errors.New("unsupported_payment_gateway")

// Registry resolves a gateway by name.
type Registry map[string]Gateway

func (r Registry) Register(gw Gateway) {
	r[gw.Name()] = gw
}

func (r Registry) Get(name string) (Gateway, error) {
	gw, ok := r[name]
	if !ok {
		return nil, ErrUnsupportedGateway
	}
	return gw, nil
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
