package notification

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature_Valid(t *testing.T) {
	body := []byte(`{"order_id":"RKT-1","status":"4"}`)
	secret := "super-secret"

	assert.True(t, VerifySignature(body, sign(body, secret), secret))
}

func TestVerifySignature_MutatedBody(t *testing.T) {
	body := []byte(`{"order_id":"RKT-1","status":"4"}`)
	secret := "super-secret"
	signature := sign(body, secret)

	mutated := make([]byte, len(body))
	copy(mutated, body)
	mutated[0] ^= 0x01

	assert.False(t, VerifySignature(mutated, signature, secret))
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	body := []byte(`{"order_id":"RKT-1","status":"4"}`)

	assert.False(t, VerifySignature(body, sign(body, "super-secret"), "other-secret"))
}

func TestVerifySignature_MissingSignature(t *testing.T) {
	assert.False(t, VerifySignature([]byte(`{}`), "", "super-secret"))
}

func TestVerifySignature_SecretWhitespaceTrimmed(t *testing.T) {
	body := []byte(`{"order_id":"RKT-1"}`)

	assert.True(t, VerifySignature(body, sign(body, "super-secret"), "  super-secret \n"))
}
