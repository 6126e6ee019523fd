package venmo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractAccessToken(t *testing.T) {
	token, ok := extractAccessToken("api_access_token=abc123; Path=/; Secure; HttpOnly")
	require.True(t, ok)
	require.Equal(t, "abc123", token)

	token, ok = extractAccessToken("api_access_token=")
	require.True(t, ok)
	require.Equal(t, "", token)

	_, ok = extractAccessToken("session_id=xyz; Path=/")
	require.False(t, ok)
}

func TestCookieName(t *testing.T) {
	require.Equal(t, "api_access_token", cookieName("api_access_token=abc; Path=/"))
	require.Equal(t, "v_id", cookieName("v_id=device"))
}

func TestExtractCsrfTokenFromScript(t *testing.T) {
	body := []byte(`<html><head><script id="__NEXT_DATA__" type="application/json">
		{"props":{"pageProps":{"csrfToken":"token-from-script"}}}
	</script></head><body></body></html>`)

	token, ok := extractCsrfToken(body)
	require.True(t, ok)
	require.Equal(t, "token-from-script", token)
}

func TestExtractCsrfTokenFromRawBody(t *testing.T) {
	body := []byte(`{"csrfToken":"raw-token","other":true}`)

	token, ok := extractCsrfToken(body)
	require.True(t, ok)
	require.Equal(t, "raw-token", token)
}

func TestExtractCsrfTokenMissingMarker(t *testing.T) {
	_, ok := extractCsrfToken([]byte(`<html><body>nothing here</body></html>`))
	require.False(t, ok)
}
