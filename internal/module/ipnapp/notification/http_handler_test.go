package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	playgroundValidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rocketr/rocketr-ipn/internal/module/ipnapp/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIPNSecret = "super-secret"

func newHandlerFixture(t *testing.T, o order.Order) (*useCaseFixture, *mux.Router) {
	t.Helper()

	f := newUseCaseFixture(o, nil)

	router := mux.NewRouter()
	InitHTTPHandler(router, playgroundValidator.New(), f.useCase, testIPNSecret)

	return f, router
}

func signedFormRequest(t *testing.T, body map[string]string) *http.Request {
	t.Helper()

	canonical := canonicalOf(t, body)

	form := url.Values{}
	for key, value := range body {
		form.Set(key, value)
	}

	req := httptest.NewRequest(http.MethodPost, "/rocketr-ipn/v1/ipn", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(IPNHashHeader, sign(canonical, testIPNSecret))

	return req
}

func canonicalOf(t *testing.T, body map[string]string) []byte {
	t.Helper()

	generic := make(map[string]interface{}, len(body))
	for key, value := range body {
		generic[key] = value
	}

	canonical, err := json.Marshal(generic)
	require.NoError(t, err)

	return canonical
}

func ipnBody(status string, amount string, customFields string) map[string]string {
	return map[string]string{
		"order_id":           "RKT-1234",
		"status":             status,
		"invoice_amount_usd": amount,
		"custom_fields":      customFields,
	}
}

func TestOnIPN_ProductDelivered(t *testing.T) {
	f, router := newHandlerFixture(t, order.Order{ID: 42, Status: order.StatusPending, TotalAmount: decimal.RequireFromString("10.00")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedFormRequest(t, ipnBody("4", "10.00", `{"wcorderid":"42"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", rec.Body.String())
	assert.Equal(t, order.StatusCompleted, f.orders.order.Status)
	assert.Equal(t, []string{"order-completed"}, f.publisher.topics)
}

func TestOnIPN_AmountMismatchAcknowledged(t *testing.T) {
	f, router := newHandlerFixture(t, order.Order{ID: 42, Status: order.StatusPending, TotalAmount: decimal.RequireFromString("10.00")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedFormRequest(t, ipnBody("4", "5.00", `{"wcorderid":"42"}`)))

	// the notification is acknowledged even though the business outcome
	// is a hold
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", rec.Body.String())
	assert.Equal(t, order.StatusOnHold, f.orders.order.Status)
	require.Len(t, f.mailer.bodies, 1)
	assert.Contains(t, f.mailer.bodies[0], "did not pay the full amount")
}

func TestOnIPN_MissingSignatureHeader(t *testing.T) {
	f, router := newHandlerFixture(t, order.Order{ID: 42, Status: order.StatusPending, TotalAmount: decimal.RequireFromString("10.00")})

	body := ipnBody("4", "10.00", `{"wcorderid":"42"}`)
	form := url.Values{}
	for key, value := range body {
		form.Set(key, value)
	}
	req := httptest.NewRequest(http.MethodPost, "/rocketr-ipn/v1/ipn", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.orders.statusUpdates)
	assert.Empty(t, f.notes.notes)
	assert.Empty(t, f.mailer.bodies)
}

func TestOnIPN_SignatureMismatch(t *testing.T) {
	f, router := newHandlerFixture(t, order.Order{ID: 42, Status: order.StatusPending, TotalAmount: decimal.RequireFromString("10.00")})

	req := signedFormRequest(t, ipnBody("4", "10.00", `{"wcorderid":"42"}`))
	req.Header.Set(IPNHashHeader, "deadbeef")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.orders.statusUpdates)
	assert.Empty(t, f.notes.notes)
}

func TestOnIPN_MissingMerchantOrderID(t *testing.T) {
	f, router := newHandlerFixture(t, order.Order{ID: 42, Status: order.StatusPending, TotalAmount: decimal.RequireFromString("10.00")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedFormRequest(t, ipnBody("4", "10.00", `{"blogname":"My Store"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.orders.statusUpdates)
	assert.Empty(t, f.notes.notes)

	require.Len(t, f.mailer.bodies, 1)
	assert.Contains(t, f.mailer.bodies[0], "unable to correlate")
}

func TestOnIPN_DisputedStatusHeldForReview(t *testing.T) {
	f, router := newHandlerFixture(t, order.Order{ID: 42, Status: order.StatusPending, TotalAmount: decimal.RequireFromString("10.00")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedFormRequest(t, ipnBody("22", "10.00", `{"wcorderid":"42"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", rec.Body.String())
	assert.Equal(t, order.StatusOnHold, f.orders.order.Status)

	require.Len(t, f.mailer.bodies, 1)
	assert.Contains(t, f.mailer.bodies[0], "STRIPE_DISPUTED")
}

func TestOnIPN_JSONBody(t *testing.T) {
	f, router := newHandlerFixture(t, order.Order{ID: 42, Status: order.StatusPending, TotalAmount: decimal.RequireFromString("10.00")})

	canonical := canonicalOf(t, ipnBody("4", "10.00", `{"wcorderid":"42"}`))

	req := httptest.NewRequest(http.MethodPost, "/rocketr-ipn/v1/ipn", strings.NewReader(string(canonical)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IPNHashHeader, sign(canonical, testIPNSecret))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", rec.Body.String())
	assert.Equal(t, order.StatusCompleted, f.orders.order.Status)
}

func TestOnIPN_EmptyBody(t *testing.T) {
	_, router := newHandlerFixture(t, order.Order{ID: 42, Status: order.StatusPending, TotalAmount: decimal.RequireFromString("10.00")})

	req := httptest.NewRequest(http.MethodPost, "/rocketr-ipn/v1/ipn", nil)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(IPNHashHeader, "deadbeef")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
