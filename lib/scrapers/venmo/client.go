// Package venmo is a client for the browser-oriented venmo web API. It
// keeps one mutable session (cookies, csrf token, bearer token, cached
// identity) per Client; callers are expected to serialize calls against
// a Client, there is no internal locking.
package venmo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"venmoctl/lib/restyutil"
	"venmoctl/lib/scrapers/venmo/credstore"
	"venmoctl/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/publicsuffix"
)

var tracer = otel.Tracer("scrapers/venmo")

// the device-id cookie the web client mints on first visit. generated
// locally on first run and persisted alongside the session cookies.
const deviceIdCookie = "v_id"

type Client struct {
	http  *resty.Client
	jar   http.CookieJar
	creds *credstore.Store

	webBaseUrl     string
	accountBaseUrl string
	apiBaseUrl     string
	webOrigin      *url.URL

	csrf     string
	bearer   string
	identity *Identity
}

type ClientOptions struct {
	Credentials *credstore.Store
	// base urls default to the production hosts, overridable for tests
	WebBaseUrl     string
	AccountBaseUrl string
	ApiBaseUrl     string
	// optional http exchange dump for debugging
	DebugOutput restyutil.InstrumentOutput
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.WebBaseUrl == "" {
		opts.WebBaseUrl = "https://venmo.com"
	}
	if opts.AccountBaseUrl == "" {
		opts.AccountBaseUrl = "https://account.venmo.com"
	}
	if opts.ApiBaseUrl == "" {
		opts.ApiBaseUrl = "https://api.venmo.com"
	}
	webOrigin, err := url.Parse(opts.WebBaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:109.0) Gecko/20100101 Firefox/113.0")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/venmo/http")
	restyutil.InstrumentClient(client, nil, opts.DebugOutput)

	c := &Client{
		http:           client,
		jar:            jar,
		creds:          opts.Credentials,
		webBaseUrl:     opts.WebBaseUrl,
		accountBaseUrl: opts.AccountBaseUrl,
		apiBaseUrl:     opts.ApiBaseUrl,
		webOrigin:      webOrigin,
	}
	return c, nil
}

// Identity returns the cached profile, nil before Profile succeeds.
func (c *Client) Identity() *Identity {
	return c.identity
}

// parseSetCookie turns a raw Set-Cookie value back into cookies the jar
// will accept.
func parseSetCookie(raw string) []*http.Cookie {
	header := http.Header{}
	header.Add("Set-Cookie", raw)
	return (&http.Response{Header: header}).Cookies()
}

// Bootstrap replays every persisted cookie into the jar against the web
// origin, warms the bearer token from any persisted access-token cookie,
// ensures a device id exists and refreshes the csrf token. Call it once
// before any other operation.
func (c *Client) Bootstrap(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Bootstrap")
	defer span.End()

	hasDeviceId := false
	err := c.creds.ForEach(ctx, func(name, value string) error {
		if name == accessTokenCookie {
			token, ok := extractAccessToken(value)
			if ok {
				c.bearer = token
			}
		}
		if name == deviceIdCookie {
			hasDeviceId = true
		}
		c.jar.SetCookies(c.webOrigin, parseSetCookie(value))
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to replay persisted cookies")
		return fmt.Errorf("%w: %v", ErrSessionInit, err)
	}

	if !hasDeviceId {
		err := c.mintDeviceId(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to mint device id")
			return fmt.Errorf("%w: %v", ErrSessionInit, err)
		}
	}

	err = c.refreshCsrf(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to refresh csrf token")
		return fmt.Errorf("%w: %v", ErrSessionInit, err)
	}
	return nil
}

func (c *Client) mintDeviceId(ctx context.Context) error {
	id, err := random.String(32)
	if err != nil {
		return err
	}
	raw := fmt.Sprintf("%s=%s; Path=/", deviceIdCookie, id)
	err = c.creds.Put(ctx, deviceIdCookie, raw)
	if err != nil {
		return err
	}
	c.jar.SetCookies(c.webOrigin, parseSetCookie(raw))
	slog.DebugContext(ctx, "minted device id", "cookie", deviceIdCookie)
	return nil
}

// LoggedIn reports whether the session still looks authenticated: the
// account landing page redirects anonymous visitors to the sign-in
// page. This check is advisory, a transport failure reads as "not
// logged in" rather than an error.
func (c *Client) LoggedIn(ctx context.Context) bool {
	res, err := c.http.R().
		SetContext(ctx).
		Get(c.accountBaseUrl + "/")
	if err != nil {
		return false
	}
	return res.RawResponse.Request.URL.String() != c.webBaseUrl+"/account/sign-in?next=%2F"
}

// refreshCsrf scrapes a fresh csrf token off the landing page (or the
// sign-in page when unauthenticated) and stores it on the session.
func (c *Client) refreshCsrf(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:refreshCsrf")
	defer span.End()

	link := c.webBaseUrl + "/account/sign-in"
	if c.LoggedIn(ctx) {
		link = c.accountBaseUrl + "/"
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("accept", "*/*").
		SetHeader("accept-language", "en-US,en;q=0.5").
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch csrf page")
		return fmt.Errorf("%w: %v", ErrCsrfFetch, err)
	}
	c.absorbResponse(ctx, res)

	token, ok := extractCsrfToken(res.Body())
	if !ok {
		span.SetStatus(codes.Error, "csrf marker not found")
		return fmt.Errorf("%w: marker not found in %s", ErrCsrfFetch, link)
	}
	c.csrf = token
	return nil
}

// absorbResponse re-synchronizes the session with a response: every
// Set-Cookie value is persisted (last write wins) and, if it names the
// access-token cookie, refreshes the bearer token. The jar itself has
// already absorbed the cookies by the time this runs. Invoked after
// every exchange, not only login.
func (c *Client) absorbResponse(ctx context.Context, res *resty.Response) {
	for _, raw := range res.Header().Values("Set-Cookie") {
		name := cookieName(raw)

		if name == accessTokenCookie {
			token, ok := extractAccessToken(raw)
			if ok {
				c.bearer = token
			}
		}

		err := c.creds.Put(ctx, name, raw)
		if err != nil {
			slog.WarnContext(ctx, "failed to persist cookie", "name", name, "err", err)
		}
	}
}

type loginQuery struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsGroup  bool   `json:"isGroup"`
}

// Login posts credentials plus the current csrf token. The token is
// sent under both header names the server has been seen to expect. On
// failure the caller should re-prompt, not retry.
func (c *Client) Login(ctx context.Context, username, password string) (LoginProfile, error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetHeader("csrf-token", c.csrf).
		SetHeader("xsrf-token", c.csrf).
		SetBody(loginQuery{
			Username: username,
			Password: password,
			IsGroup:  false,
		}).
		SetResult(&LoginProfile{}).
		Post(c.webBaseUrl + "/api/login")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return LoginProfile{}, fmt.Errorf("%w: %v", ErrLogin, err)
	}
	c.absorbResponse(ctx, res)

	profile, ok := res.Result().(*LoginProfile)
	if !ok || profile.Username == "" {
		span.SetStatus(codes.Error, "unparsable login response")
		return LoginProfile{}, fmt.Errorf("%w: unparsable response (status %d)", ErrLogin, res.StatusCode())
	}
	return *profile, nil
}

// Logout issues the logout round trip and discards local credentials.
// Any completed round trip, 2xx or not, is enough to clear the store;
// only a hard transport error leaves it intact.
func (c *Client) Logout(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Logout")
	defer span.End()

	_, err := c.http.R().
		SetContext(ctx).
		Get(c.accountBaseUrl + "/account/logout")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "logout request failed")
		return fmt.Errorf("%w: %v", ErrLogout, err)
	}

	err = c.creds.Clear(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to clear credential store")
		return fmt.Errorf("%w: %v", ErrLogout, err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogout, err)
	}
	c.jar = jar
	c.http.SetCookieJar(jar)
	c.csrf = ""
	c.bearer = ""
	c.identity = nil
	return nil
}
