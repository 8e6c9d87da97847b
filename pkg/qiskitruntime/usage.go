package qiskitruntime

import (
	"context"
	"encoding/json"
	"net/http"
)

// UsageService provides account usage operations.
type UsageService struct {
	client *Client
}

// Get returns the account usage document for the current billing
// period. The schema varies by plan, so the document is returned raw.
func (s *UsageService) Get(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := s.client.http.request(ctx, http.MethodGet, "/usage", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
