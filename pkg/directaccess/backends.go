package directaccess

import (
	"context"
	"net/http"
)

// BackendService provides backend discovery operations.
type BackendService struct {
	client *Client
}

// List returns the backends available for direct access.
func (s *BackendService) List(ctx context.Context) ([]Backend, error) {
	var out struct {
		Backends []Backend `json:"backends"`
	}
	if err := s.client.http.request(ctx, http.MethodGet, "/v1/backends", nil, &out); err != nil {
		return nil, err
	}
	return out.Backends, nil
}

// Get returns the details of a single backend.
func (s *BackendService) Get(ctx context.Context, name string) (*Backend, error) {
	var out Backend
	if err := s.client.http.request(ctx, http.MethodGet, "/v1/backends/"+name, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Configuration returns the backend configuration document.
func (s *BackendService) Configuration(ctx context.Context, name string) (BackendConfiguration, error) {
	var out BackendConfiguration
	if err := s.client.http.request(ctx, http.MethodGet, "/v1/backends/"+name+"/configuration", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Properties returns the backend properties document.
func (s *BackendService) Properties(ctx context.Context, name string) (BackendProperties, error) {
	var out BackendProperties
	if err := s.client.http.request(ctx, http.MethodGet, "/v1/backends/"+name+"/properties", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
