package gateways

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStripeTestGateway(handler http.Handler) (*StripeGateway, *httptest.Server) {
	srv := httptest.NewServer(handler)
	gw := NewStripeGateway("sk_test_abc", "https://shop.test")
	gw.BaseURL = srv.URL
	gw.Client = srv.Client()
	return gw, srv
}

func TestStripeCreateCharge(t *testing.T) {
	var gotAuth string
	var gotForm map[string]string

	gw, srv := newStripeTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkout/sessions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_42","url":"https://checkout.stripe.test/cs_test_42","payment_status":"unpaid"}`))
	}))
	defer srv.Close()

	session, err := gw.CreateCharge(context.Background(), ChargeRequest{
		Amount:        123.45,
		Currency:      "EUR",
		CustomerEmail: "buyer@test.io",
		Reference:     "listing-7",
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_42", session.TransactionID)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_42", session.RedirectURL)

	assert.Equal(t, "Bearer sk_test_abc", gotAuth)
	assert.Equal(t, "payment", gotForm["mode"])
	assert.Equal(t, "eur", gotForm["line_items[0][price_data][currency]"])
	// Minor-unit conversion is a flat x100.
	assert.Equal(t, "12345", gotForm["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "buyer@test.io", gotForm["customer_email"])
	assert.Equal(t, "listing-7", gotForm["metadata[reference]"])
	assert.Contains(t, gotForm["success_url"], "https://shop.test/success")
}

func TestStripeMinorUnitRounding(t *testing.T) {
	// float64 x100 lands just below the integer for most fractional
	// amounts (19.99*100 = 1998.999...); the conversion must round,
	// not truncate.
	cases := map[float64]string{
		19.99:  "1999",
		123.45: "12345",
		0.07:   "7",
		10:     "1000",
	}
	for amount, want := range cases {
		var gotUnit string
		gw, srv := newStripeTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotUnit = r.PostForm.Get("line_items[0][price_data][unit_amount]")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"cs_test_42","url":"https://checkout.stripe.test/cs_test_42"}`))
		}))
		_, err := gw.CreateCharge(context.Background(), ChargeRequest{Amount: amount})
		srv.Close()
		require.NoError(t, err)
		assert.Equal(t, want, gotUnit, "amount %v", amount)
	}
}

func TestStripeCreateChargeError(t *testing.T) {
	gw, srv := newStripeTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"Your card was declined."}}`))
	}))
	defer srv.Close()

	_, err := gw.CreateCharge(context.Background(), ChargeRequest{Amount: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declined")
}

func TestStripeVerifyCharge(t *testing.T) {
	status := "paid"
	gw, srv := newStripeTestGateway(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/checkout/sessions/cs_test_42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_42","payment_status":"` + status + `"}`))
	}))
	defer srv.Close()

	result, err := gw.VerifyCharge(context.Background(), "cs_test_42", nil)
	require.NoError(t, err)
	assert.True(t, result.Verified)

	status = "unpaid"
	result, err = gw.VerifyCharge(context.Background(), "cs_test_42", nil)
	require.NoError(t, err)
	assert.False(t, result.Verified)
}
