package qiskitruntime

import (
	"context"
	"net/http"
)

// SessionService provides session operations. A session reserves a
// backend for a sequence of jobs scheduled together.
type SessionService struct {
	client *Client
}

// Create opens a new session and returns its ID.
func (s *SessionService) Create(ctx context.Context, req *CreateSessionRequest) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := s.client.http.request(ctx, http.MethodPost, "/sessions", nil, req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Get returns the details of a session.
func (s *SessionService) Get(ctx context.Context, id string) (*Session, error) {
	var out Session
	if err := s.client.http.request(ctx, http.MethodGet, "/sessions/"+id, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Close stops a session accepting new jobs. Queued and running jobs
// of the session run to completion.
func (s *SessionService) Close(ctx context.Context, id string) error {
	return s.client.http.request(ctx, http.MethodDelete, "/sessions/"+id+"/close", nil, nil, nil)
}
