package environment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrNoSession is returned when the backoffice login sets no cookies.
var ErrNoSession = errors.New("backoffice login returned no session cookie")

// BackofficeLoginPath is the legacy backoffice form login endpoint.
const BackofficeLoginPath = "/login"

// BackofficeSession is a logged-in legacy backoffice session.
type BackofficeSession struct {
	Cookies []*http.Cookie
}

// Header returns the Cookie header replaying the session.
func (s *BackofficeSession) Header() http.Header {
	parts := make([]string, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	h := http.Header{}
	h.Set("Cookie", strings.Join(parts, "; "))
	return h
}

// LoginBackofficeLegacy submits the backoffice login form at baseURL and
// captures the session cookies. Redirects are not followed: the login answers
// with a redirect that carries the cookies.
func LoginBackofficeLegacy(ctx context.Context, client *http.Client, baseURL, username, password string) (*BackofficeSession, error) {
	if client == nil {
		client = http.DefaultClient
	}
	noRedirect := *client
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(baseURL, "/")+BackofficeLoginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build backoffice login: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := noRedirect.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backoffice login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("backoffice login: unexpected status %d", resp.StatusCode)
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return nil, ErrNoSession
	}
	return &BackofficeSession{Cookies: cookies}, nil
}
