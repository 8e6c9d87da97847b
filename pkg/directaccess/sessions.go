package directaccess

import (
	"context"
	"net/http"
)

// SessionService provides session operations. A session reserves a
// backend for a sequence of jobs.
type SessionService struct {
	client *Client
}

// Create opens a new session and returns its ID. maxTTL bounds the
// session lifetime in seconds.
func (s *SessionService) Create(ctx context.Context, mode SessionMode, maxTTL int64) (string, error) {
	body := map[string]any{
		"mode":    mode,
		"max_ttl": maxTTL,
	}
	var out struct {
		SessionID string `json:"session_id"`
	}
	if err := s.client.http.request(ctx, http.MethodPost, "/v1/sessions", body, &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

// Close ends a session.
func (s *SessionService) Close(ctx context.Context, id string) error {
	return s.client.http.request(ctx, http.MethodDelete, "/v1/sessions/"+id, nil, nil)
}
