package notification

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// VerifySignature checks the IPN hash header against an HMAC-SHA-512
// of the canonical JSON body keyed with the shared secret. Nothing
// downstream may trust a field before this returns true.
func VerifySignature(canonicalBody []byte, providedSignature string, secret string) bool {
	if providedSignature == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(strings.TrimSpace(secret)))
	mac.Write(canonicalBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(providedSignature))
}
