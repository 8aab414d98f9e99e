package notification

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rocketr/rocketr-ipn/pkg/errors"
	"github.com/rocketr/rocketr-ipn/pkg/status"
	"github.com/shopspring/decimal"
)

// CanonicalizeBody re-marshals the body map into the deterministic JSON
// form the signature is computed over. Map keys serialize sorted and
// json.Number values keep their lexical form, so form-encoded and JSON
// submissions canonicalize identically.
func CanonicalizeBody(body map[string]interface{}) ([]byte, error) {
	canonical, err := json.Marshal(body)
	if err != nil {
		return nil, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "received invalid ipn")
	}

	return canonical, nil
}

// ParseIPN extracts the structured fields from a verified IPN body.
// A missing or malformed wcorderid custom field is not a hard failure;
// the notification parses with OrderID zero and the reconciliation
// engine owns that outcome.
func ParseIPN(body map[string]interface{}, canonical []byte) (ParsedNotification, error) {
	if len(body) == 0 {
		return ParsedNotification{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "received invalid ipn")
	}

	pn := ParsedNotification{
		Raw: canonical,
	}

	pn.RocketrOrderID = stripSlashes(readString(body, "order_id"))
	if pn.RocketrOrderID == "" {
		return ParsedNotification{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "received invalid ipn")
	}

	statusCode, err := strconv.Atoi(readString(body, "status"))
	if err != nil {
		return ParsedNotification{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "received invalid ipn")
	}
	pn.Status = StatusCode(statusCode)

	amount, err := decimal.NewFromString(readString(body, "invoice_amount_usd"))
	if err != nil {
		return ParsedNotification{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, "received invalid ipn")
	}
	pn.Amount = amount

	rawCustomFields := stripSlashes(readString(body, "custom_fields"))

	var customFields map[string]string
	if err := json.Unmarshal([]byte(rawCustomFields), &customFields); err != nil || len(customFields) == 0 {
		return pn, nil
	}
	pn.CustomFields = customFields

	wcOrderID, ok := customFields["wcorderid"]
	if !ok {
		return pn, nil
	}

	orderID, err := strconv.ParseInt(strings.TrimSpace(wcOrderID), 10, 64)
	if err != nil || orderID <= 0 {
		return pn, nil
	}
	pn.OrderID = orderID

	return pn, nil
}

func readString(body map[string]interface{}, key string) string {
	value, ok := body[key]
	if !ok || value == nil {
		return ""
	}

	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}

// stripSlashes undoes one level of backslash escaping, the transport
// quoting Rocketr applies to nested values.
func stripSlashes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}

	return b.String()
}
