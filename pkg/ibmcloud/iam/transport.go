package iam

import (
	"fmt"
	"log/slog"
	"net/http"
)

// Transport is an http.RoundTripper that attaches an IAM bearer token to
// every request. On a 401 response it refreshes the token once and
// replays the request.
type Transport struct {
	// Source supplies and caches tokens. Required.
	Source *TokenSource

	// Base is the underlying transport. Defaults to http.DefaultTransport.
	Base http.RoundTripper

	// Headers are added to every request, e.g. Service-CRN or
	// IBM-API-Version.
	Headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Source == nil {
		return nil, fmt.Errorf("iam: Transport has no token source")
	}

	token, err := t.Source.Token()
	if err != nil {
		return nil, err
	}

	resp, err := t.base().RoundTrip(t.decorate(req, token.AccessToken))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	if req.Body != nil && req.GetBody == nil {
		// Body already consumed and not replayable; surface the 401.
		return resp, nil
	}

	// The cached token was rejected. Refresh once and replay.
	slog.Debug("iam: token rejected, refreshing", "url", req.URL.Path)
	resp.Body.Close()
	token, err = t.Source.Refresh(req.Context())
	if err != nil {
		return nil, err
	}
	retry := t.decorate(req, token.AccessToken)
	if req.Body != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	return t.base().RoundTrip(retry)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// decorate clones the request and sets auth and static headers. The
// original request is left untouched so it can be replayed.
func (t *Transport) decorate(req *http.Request, token string) *http.Request {
	out := req.Clone(req.Context())
	out.Header.Set("Authorization", "Bearer "+token)
	for k, v := range t.Headers {
		out.Header.Set(k, v)
	}
	return out
}
