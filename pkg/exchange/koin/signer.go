package koin

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// Sign computes the request signature: the message path/nonce/query is base64
// encoded first and the HMAC-SHA256 is taken over that base64 text, then hex
// encoded. The service verifies exactly this double encoding.
func Sign(path, nonce, canonicalQuery, secret string) string {
	message := base64.StdEncoding.EncodeToString([]byte(path + "/" + nonce + "/" + canonicalQuery))
	return signHMAC(message, secret)
}

func signHMAC(message, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}
