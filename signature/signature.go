// Package signature verifies the HMAC the provider attaches to callback
// query strings.
//
// The digest is computed over the raw, still percent-encoded query string with
// the hmac pair removed and the remaining pairs sorted by key. Values are never
// decoded or re-encoded: doing so would change the signed bytes.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Param is the query parameter that carries the signature.
const Param = "hmac"

// Verifier signs and verifies canonical callback query strings with a shared secret.
type Verifier struct {
	secret []byte
}

// New creates a verifier for the given shared secret.
func New(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

type pair struct {
	key string
	raw string
}

// Canonicalize drops the signature pair and sorts the rest by key, keeping
// each pair byte-for-byte as received.
func Canonicalize(rawQuery string) string {
	segments := strings.Split(rawQuery, "&")
	pairs := make([]pair, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		key, _, _ := strings.Cut(segment, "=")
		if key == Param {
			continue
		}
		pairs = append(pairs, pair{key: key, raw: segment})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].key < pairs[j].key
	})

	joined := make([]string, len(pairs))
	for i, p := range pairs {
		joined[i] = p.raw
	}
	return strings.Join(joined, "&")
}

// Sign returns the lowercase hex HMAC-SHA256 of the canonical form of rawQuery.
func (v *Verifier) Sign(rawQuery string) string {
	return hex.EncodeToString(v.digest(rawQuery))
}

// Verify reports whether provided is the signature of rawQuery. It fails
// closed on an empty secret, malformed hex or a digest of the wrong length.
func (v *Verifier) Verify(rawQuery, provided string) bool {
	if v == nil || len(v.secret) == 0 || provided == "" {
		return false
	}
	got, err := hex.DecodeString(provided)
	if err != nil || len(got) != sha256.Size {
		return false
	}
	return hmac.Equal(got, v.digest(rawQuery))
}

func (v *Verifier) digest(rawQuery string) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(Canonicalize(rawQuery)))
	return mac.Sum(nil)
}
