package fielddirectory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"fieldbooking/internal/domain"
)

type httpFieldRepository struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFieldRepository returns a FieldRepository that reads field metadata
// from an external directory service at baseURL (GET {baseURL}/fields/{id}).
func NewHTTPFieldRepository(baseURL string, client *http.Client) domain.FieldRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpFieldRepository{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (r *httpFieldRepository) GetByID(ctx context.Context, id string) (*domain.Field, error) {
	endpoint := fmt.Sprintf("%s/fields/%s", r.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, domain.WrapTransient("field directory unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NewNotFoundError("field %s not found", id)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, domain.WrapTransient("field directory unavailable", fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("field directory returned status: %d", resp.StatusCode)
	}

	var f domain.Field
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode field %s: %w", id, err)
	}
	if f.ID == "" {
		f.ID = id
	}
	return &f, nil
}
