package venmo

import (
	"bytes"
	"regexp"
	"strings"

	"venmoctl/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// the cookie the bearer token is minted from
const accessTokenCookie = "api_access_token"

var accessTokenRegex = regexp.MustCompile(`api_access_token=([^;]*)`)

// extractAccessToken pulls the bearer token out of a raw Set-Cookie
// value naming the access-token cookie.
func extractAccessToken(rawSetCookie string) (string, bool) {
	groups := accessTokenRegex.FindStringSubmatch(rawSetCookie)
	if len(groups) < 2 {
		return "", false
	}
	return groups[1], true
}

// cookieName returns the name portion of a raw Set-Cookie value.
func cookieName(rawSetCookie string) string {
	name, _, _ := strings.Cut(rawSetCookie, "=")
	return name
}

var csrfMarkerRegex = regexp.MustCompile(`"csrfToken":"([^"]*)"`)

// extractCsrfToken scans a landing/sign-in page for the embedded
// `"csrfToken":"<value>"` marker. The marker lives inside an inline
// script on the pages we scrape, so the script tags are checked first,
// with a whole-body scan as a fallback. A missing marker is a hard
// failure, never an empty default.
func extractCsrfToken(body []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err == nil {
		for _, script := range doc.Find("script").Nodes {
			groups := csrfMarkerRegex.FindStringSubmatch(htmlutil.GetText(script))
			if len(groups) >= 2 && groups[1] != "" {
				return groups[1], true
			}
		}
	}

	groups := csrfMarkerRegex.FindSubmatch(body)
	if len(groups) >= 2 && len(groups[1]) > 0 {
		return string(groups[1]), true
	}
	return "", false
}
