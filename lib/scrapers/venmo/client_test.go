package venmo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"venmoctl/lib/scrapers/venmo/credstore"
	"venmoctl/lib/testutil"

	"github.com/stretchr/testify/require"
)

// setupTestClient builds a client whose three hosts all point at one
// httptest server, backed by an in-memory credential store.
func setupTestClient(t *testing.T, handler http.Handler) (*Client, *credstore.Store) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name: "scrapers/venmo",
	})
	t.Cleanup(cleanup)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds, err := credstore.New(result.DB)
	require.NoError(t, err)

	client, err := NewClient(context.Background(), ClientOptions{
		Credentials:    creds,
		WebBaseUrl:     server.URL,
		AccountBaseUrl: server.URL,
		ApiBaseUrl:     server.URL,
	})
	require.NoError(t, err)
	return client, creds
}

const landingPage = `<html><head><script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"csrfToken":"csrf-from-page"}}}
</script></head><body></body></html>`

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "api_access_token=abc123; Path=/; HttpOnly")
		w.Header().Add("Set-Cookie", "session_id=sess-1; Path=/")
		fmt.Fprint(w, landingPage)
	})

	client, creds := setupTestClient(t, mux)
	err := client.Bootstrap(ctx)
	require.NoError(t, err)

	require.Equal(t, "csrf-from-page", client.csrf)
	require.Equal(t, "abc123", client.bearer)

	// every Set-Cookie value was persisted, plus the minted device id
	token, err := creds.Get(ctx, "api_access_token")
	require.NoError(t, err)
	require.Equal(t, "api_access_token=abc123; Path=/; HttpOnly", token)
	_, err = creds.Get(ctx, "session_id")
	require.NoError(t, err)
	_, err = creds.Get(ctx, "v_id")
	require.NoError(t, err)
}

func TestBootstrapReplaysPersistedSession(t *testing.T) {
	ctx := context.Background()

	var sawCookies []string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		for _, cookie := range r.Cookies() {
			sawCookies = append(sawCookies, cookie.Name+"="+cookie.Value)
		}
		fmt.Fprint(w, landingPage)
	})

	client, creds := setupTestClient(t, mux)
	require.NoError(t, creds.Put(ctx, "session_id", "session_id=restored; Path=/"))
	require.NoError(t, creds.Put(ctx, "api_access_token", "api_access_token=warm-token; Path=/"))
	require.NoError(t, creds.Put(ctx, "v_id", "v_id=device-1; Path=/"))

	err := client.Bootstrap(ctx)
	require.NoError(t, err)

	// the bearer was warmed straight from the store
	require.Equal(t, "warm-token", client.bearer)
	// the replayed cookies rode along on the first request
	require.Contains(t, sawCookies, "session_id=restored")
	require.Contains(t, sawCookies, "v_id=device-1")

	// an existing device id is kept, not re-minted
	raw, err := creds.Get(ctx, "v_id")
	require.NoError(t, err)
	require.Equal(t, "v_id=device-1; Path=/", raw)
}

func TestBootstrapMissingCsrfMarker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>maintenance</body></html>")
	})

	client, _ := setupTestClient(t, mux)
	err := client.Bootstrap(context.Background())
	require.ErrorIs(t, err, ErrSessionInit)
}

func TestLoggedIn(t *testing.T) {
	authed := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !authed {
			http.Redirect(w, r, "/account/sign-in?next=%2F", http.StatusFound)
			return
		}
		fmt.Fprint(w, landingPage)
	})
	mux.HandleFunc("/account/sign-in", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, landingPage)
	})

	client, _ := setupTestClient(t, mux)
	ctx := context.Background()

	require.False(t, client.LoggedIn(ctx))
	authed = true
	require.True(t, client.LoggedIn(ctx))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	var gotCsrf, gotXsrf string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, landingPage)
	})
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		gotCsrf = r.Header.Get("csrf-token")
		gotXsrf = r.Header.Get("xsrf-token")
		w.Header().Add("Set-Cookie", "api_access_token=fresh-token; Path=/; HttpOnly")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"username":"jdoe","id":"user-1","displayName":"J Doe"}`)
	})

	client, creds := setupTestClient(t, mux)
	require.NoError(t, client.Bootstrap(ctx))

	profile, err := client.Login(ctx, "jdoe", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "jdoe", profile.Username)

	require.Equal(t, "csrf-from-page", gotCsrf)
	require.Equal(t, "csrf-from-page", gotXsrf)

	// the session absorbed the rotated access token
	require.Equal(t, "fresh-token", client.bearer)
	raw, err := creds.Get(ctx, "api_access_token")
	require.NoError(t, err)
	require.Equal(t, "api_access_token=fresh-token; Path=/; HttpOnly", raw)
}

func TestLoginUnparsableResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, landingPage)
	})
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"bad credentials"}`)
	})

	client, _ := setupTestClient(t, mux)
	ctx := context.Background()
	require.NoError(t, client.Bootstrap(ctx))

	_, err := client.Login(ctx, "jdoe", "wrong")
	require.ErrorIs(t, err, ErrLogin)
}

func TestLogoutClearsSession(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "api_access_token=abc123; Path=/")
		fmt.Fprint(w, landingPage)
	})
	mux.HandleFunc("/account/logout", func(w http.ResponseWriter, r *http.Request) {
		// a non-2xx answer still counts as a completed round trip
		w.WriteHeader(http.StatusInternalServerError)
	})

	client, creds := setupTestClient(t, mux)
	require.NoError(t, client.Bootstrap(ctx))
	require.Equal(t, "abc123", client.bearer)
	client.identity = &Identity{Id: "user-1"}

	err := client.Logout(ctx)
	require.NoError(t, err)

	require.Empty(t, client.bearer)
	require.Empty(t, client.csrf)
	require.Nil(t, client.Identity())

	count := 0
	err = creds.ForEach(ctx, func(name, value string) error {
		count++
		return nil
	})
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestProfileRequiresBearer(t *testing.T) {
	client, _ := setupTestClient(t, http.NewServeMux())
	_, err := client.Profile(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}
