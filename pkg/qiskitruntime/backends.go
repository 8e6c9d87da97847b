package qiskitruntime

import (
	"context"
	"encoding/json"
	"net/http"
)

// BackendService provides backend discovery operations.
type BackendService struct {
	client *Client
}

// List returns the names of the backends available to the account.
func (s *BackendService) List(ctx context.Context) ([]string, error) {
	var out struct {
		Devices []string `json:"devices"`
	}
	if err := s.client.http.request(ctx, http.MethodGet, "/backends", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Devices, nil
}

// Status returns the operational status of a backend.
func (s *BackendService) Status(ctx context.Context, name string) (*BackendStatusInfo, error) {
	var out BackendStatusInfo
	if err := s.client.http.request(ctx, http.MethodGet, "/backends/"+name+"/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Configuration returns the backend configuration document.
func (s *BackendService) Configuration(ctx context.Context, name string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.http.request(ctx, http.MethodGet, "/backends/"+name+"/configuration", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Properties returns the backend properties document.
func (s *BackendService) Properties(ctx context.Context, name string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.http.request(ctx, http.MethodGet, "/backends/"+name+"/properties", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
