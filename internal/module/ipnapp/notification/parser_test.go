package notification

import (
	"net/http"
	"testing"

	"github.com/rocketr/rocketr-ipn/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"order_id":           "RKT-1234",
		"status":             "4",
		"invoice_amount_usd": "10.00",
		"custom_fields":      `{"blogname":"My Store","wcorderid":"42"}`,
	}
}

func TestParseIPN_Valid(t *testing.T) {
	body := validBody()
	canonical, err := CanonicalizeBody(body)
	require.NoError(t, err)

	pn, err := ParseIPN(body, canonical)
	require.NoError(t, err)

	assert.Equal(t, "RKT-1234", pn.RocketrOrderID)
	assert.Equal(t, StatusProductDelivered, pn.Status)
	assert.Equal(t, "10", pn.Amount.String())
	assert.Equal(t, int64(42), pn.OrderID)
	assert.Equal(t, "My Store", pn.CustomFields["blogname"])
	assert.Equal(t, canonical, pn.Raw)
}

func TestParseIPN_EmptyBody(t *testing.T) {
	_, err := ParseIPN(map[string]interface{}{}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errors.Destruct(err).HTTPStatusCode)
}

func TestParseIPN_NonNumericStatus(t *testing.T) {
	body := validBody()
	body["status"] = "delivered"

	_, err := ParseIPN(body, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errors.Destruct(err).HTTPStatusCode)
}

func TestParseIPN_MissingAmount(t *testing.T) {
	body := validBody()
	delete(body, "invoice_amount_usd")

	_, err := ParseIPN(body, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errors.Destruct(err).HTTPStatusCode)
}

func TestParseIPN_CustomFieldsNotJSON(t *testing.T) {
	body := validBody()
	body["custom_fields"] = "not-json"

	pn, err := ParseIPN(body, nil)
	require.NoError(t, err)
	assert.Zero(t, pn.OrderID)
}

func TestParseIPN_MissingMerchantOrderID(t *testing.T) {
	body := validBody()
	body["custom_fields"] = `{"blogname":"My Store"}`

	pn, err := ParseIPN(body, nil)
	require.NoError(t, err)
	assert.Zero(t, pn.OrderID)
}

func TestParseIPN_NonNumericMerchantOrderID(t *testing.T) {
	body := validBody()
	body["custom_fields"] = `{"wcorderid":"forty-two"}`

	pn, err := ParseIPN(body, nil)
	require.NoError(t, err)
	assert.Zero(t, pn.OrderID)
}

func TestParseIPN_EscapedCustomFields(t *testing.T) {
	body := validBody()
	body["custom_fields"] = `{\"wcorderid\":\"42\"}`

	pn, err := ParseIPN(body, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pn.OrderID)
}

func TestCanonicalizeBody_Deterministic(t *testing.T) {
	a, err := CanonicalizeBody(map[string]interface{}{"b": "2", "a": "1"})
	require.NoError(t, err)
	b, err := CanonicalizeBody(map[string]interface{}{"a": "1", "b": "2"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.JSONEq(t, `{"a":"1","b":"2"}`, string(a))
}
