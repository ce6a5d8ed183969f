package signature_test

import (
	"strings"
	"testing"

	"github.com/jrsteele09/go-company-auth/signature"
	"github.com/stretchr/testify/require"
)

const secret = "shared-callback-secret"

func TestCanonicalize(t *testing.T) {
	t.Run("drops hmac and sorts by key", func(t *testing.T) {
		got := signature.Canonicalize("timestamp=1700000000&hmac=abc&company_id=acme-1&code=xyz")
		require.Equal(t, "code=xyz&company_id=acme-1&timestamp=1700000000", got)
	})

	t.Run("preserves percent encoding", func(t *testing.T) {
		got := signature.Canonicalize("redirect_to=https%3A%2F%2Fapp.example.com&code=a%20b")
		require.Equal(t, "code=a%20b&redirect_to=https%3A%2F%2Fapp.example.com", got)
	})

	t.Run("splits on the first equals only", func(t *testing.T) {
		got := signature.Canonicalize("b=x=y&a=1")
		require.Equal(t, "a=1&b=x=y", got)
	})

	t.Run("sorts by key not value", func(t *testing.T) {
		got := signature.Canonicalize("b=1&a=2")
		require.Equal(t, "a=2&b=1", got)
	})

	t.Run("ignores empty segments", func(t *testing.T) {
		require.Equal(t, "a=1&b=2", signature.Canonicalize("&a=1&&b=2&"))
		require.Equal(t, "", signature.Canonicalize(""))
	})
}

func TestVerify(t *testing.T) {
	v := signature.New(secret)
	raw := "company_id=acme-1&code=abc&timestamp=1700000000"
	sig := v.Sign(raw)

	t.Run("valid signature", func(t *testing.T) {
		require.True(t, v.Verify(raw+"&hmac="+sig, sig))
		require.True(t, v.Verify(raw, sig))
	})

	t.Run("deterministic", func(t *testing.T) {
		require.Equal(t, sig, v.Sign(raw))
		require.Equal(t, sig, signature.New(secret).Sign(raw))
	})

	t.Run("order independent", func(t *testing.T) {
		reordered := "timestamp=1700000000&code=abc&company_id=acme-1"
		require.Equal(t, sig, v.Sign(reordered))
		require.True(t, v.Verify(reordered, sig))
	})

	t.Run("any byte change invalidates", func(t *testing.T) {
		for _, tampered := range []string{
			"company_id=acme-2&code=abc&timestamp=1700000000",
			"company_id=acme-1&code=abc&timestamp=1700000001",
			"company_id=acme-1&code=ab%63&timestamp=1700000000",
			"company_id=acme-1&code=abc &timestamp=1700000000",
			"company_id=acme-1&code=abc",
		} {
			require.False(t, v.Verify(tampered, sig), tampered)
		}
	})

	t.Run("flipped signature character", func(t *testing.T) {
		flipped := []byte(sig)
		if flipped[0] == 'a' {
			flipped[0] = 'b'
		} else {
			flipped[0] = 'a'
		}
		require.False(t, v.Verify(raw, string(flipped)))
	})

	t.Run("wrong secret", func(t *testing.T) {
		require.False(t, signature.New("other").Verify(raw, sig))
	})

	t.Run("fails closed on malformed input", func(t *testing.T) {
		require.False(t, v.Verify(raw, ""))
		require.False(t, v.Verify(raw, "not-hex"))
		require.False(t, v.Verify(raw, sig[:10]))
		require.False(t, v.Verify(raw, sig+"00"))
		require.False(t, v.Verify(raw, strings.ToUpper(sig)+"zz"))
		require.False(t, signature.New("").Verify(raw, sig))

		var nilVerifier *signature.Verifier
		require.False(t, nilVerifier.Verify(raw, sig))
	})
}
