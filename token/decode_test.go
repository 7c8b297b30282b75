package token_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aaron-cedillo/EbenConta-Project/token"
	"github.com/stretchr/testify/require"
)

const testHeader = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"

func credentialFor(t *testing.T, payload string, enc *base64.Encoding) string {
	t.Helper()
	return testHeader + "." + enc.EncodeToString([]byte(payload)) + ".c2lnbmF0dXJl"
}

func TestDecodeReturnsEmbeddedClaims(t *testing.T) {
	payloads := []string{
		`{"exp":1735689600,"role":"admin"}`,
		`{"exp":1735689600,"role":"contador","nombre":"José Ñúñez","usuarioID":7}`,
		`{"exp":1735689600,"role":"admin","nested":{"a":[1,2,3]},"ok":true}`,
		`{}`,
	}

	encodings := map[string]*base64.Encoding{
		"raw url":    base64.RawURLEncoding,
		"padded url": base64.URLEncoding,
		"standard":   base64.StdEncoding,
	}

	for _, payload := range payloads {
		dec := json.NewDecoder(strings.NewReader(payload))
		dec.UseNumber()
		var expected token.Claims
		require.NoError(t, dec.Decode(&expected))

		for name, enc := range encodings {
			t.Run(name+" "+payload, func(t *testing.T) {
				claims, err := token.Decode(credentialFor(t, payload, enc))
				require.NoError(t, err)
				require.Equal(t, expected, claims)
			})
		}
	}
}

func TestDecodeKeepsLargeIntegersExact(t *testing.T) {
	claims, err := token.Decode(credentialFor(t, `{"exp":1735689600,"big":9007199254740993}`, base64.RawURLEncoding))
	require.NoError(t, err)
	require.Equal(t, json.Number("9007199254740993"), claims["big"])

	exp, err := claims.ExpiresAt()
	require.NoError(t, err)
	require.Equal(t, int64(1735689600), exp.Unix())
}

func TestDecodeIgnoresHeaderAndSignature(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"exp":1,"role":"admin"}`))

	claims, err := token.Decode("not-a-header." + payload + ".")
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role())
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"one segment":    "abc",
		"two segments":   testHeader + ".eyJ9",
		"four segments":  "a.b.c.d",
		"bad base64":     testHeader + ".!!!!.sig",
		"not json":       credentialFor(t, "hello", base64.RawURLEncoding),
		"json array":     credentialFor(t, `[1,2]`, base64.RawURLEncoding),
		"json null":      credentialFor(t, `null`, base64.RawURLEncoding),
		"truncated json": credentialFor(t, `{"exp":`, base64.RawURLEncoding),
		"trailing data":  credentialFor(t, `{"exp":1} {}`, base64.RawURLEncoding),
		"invalid utf8":   testHeader + "." + base64.RawURLEncoding.EncodeToString([]byte("{\"nombre\":\"\xff\xfe\"}")) + ".sig",
	}

	for name, credential := range cases {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() {
				claims, err := token.Decode(credential)
				require.ErrorIs(t, err, token.ErrMalformedCredential)
				require.Nil(t, claims)
			})
		})
	}
}

func TestClaimsAccessors(t *testing.T) {
	exp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("exp and remaining", func(t *testing.T) {
		claims := token.Claims{"exp": float64(exp.Unix()), "role": "contador", "sub": "7"}

		got, err := claims.ExpiresAt()
		require.NoError(t, err)
		require.True(t, exp.Equal(got))

		remaining, err := claims.Remaining(exp.Add(-3 * time.Minute))
		require.NoError(t, err)
		require.Equal(t, 3*time.Minute, remaining)

		require.Equal(t, "contador", claims.Role())
		require.Equal(t, "7", claims.Subject())
	})

	t.Run("rol fallback", func(t *testing.T) {
		require.Equal(t, "admin", token.Claims{"rol": "admin"}.Role())
		require.Equal(t, "", token.Claims{}.Role())
	})

	t.Run("missing exp", func(t *testing.T) {
		_, err := token.Claims{"role": "admin"}.ExpiresAt()
		require.ErrorIs(t, err, token.ErrMalformedCredential)
	})

	t.Run("non numeric exp", func(t *testing.T) {
		_, err := token.Claims{"exp": "tomorrow"}.Remaining(exp)
		require.ErrorIs(t, err, token.ErrMalformedCredential)
	})
}

func TestDecodeDoesNotTrimWhitespaceSegments(t *testing.T) {
	_, err := token.Decode(" . . ")
	require.ErrorIs(t, err, token.ErrMalformedCredential)
}
