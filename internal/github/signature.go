package github

import (
	"strings"

	"github.com/google/go-github/v73/github"
)

// SignatureHeader carries the HMAC-SHA256 signature of a webhook payload.
const SignatureHeader = github.SHA256SignatureHeader

const signaturePrefix = "sha256="

// VerifySignature reports whether signature is "sha256=" followed by the hex
// HMAC-SHA256 of payload keyed with secret. The comparison is constant time.
// An empty secret never verifies, and legacy sha1 signatures are rejected.
func VerifySignature(payload []byte, signature string, secret []byte) bool {
	if len(secret) == 0 || !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}
	return github.ValidateSignature(signature, payload, secret) == nil
}
