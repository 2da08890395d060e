package seed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	maxBodyExcerpt = 256
	maxSeedBody    = 10 << 20
)

// HTTPSource fetches resources from a static file server
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource fetches resources below baseURL
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch performs GET <baseURL>/<resource> and decodes the JSON body into v
func (s *HTTPSource) Fetch(ctx context.Context, resource string, v any) error {
	url := s.baseURL + "/" + resource
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Resource: resource, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &FetchError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSeedBody+1))
	if err != nil {
		return &FetchError{Resource: resource, Status: resp.StatusCode, Err: err}
	}
	if len(body) > maxSeedBody {
		return &FetchError{
			Resource: resource,
			Status:   resp.StatusCode,
			Err:      errors.Errorf("body exceeds %d bytes", maxSeedBody),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Resource: resource, Status: resp.StatusCode, Body: excerpt(body)}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &FetchError{
			Resource: resource,
			Status:   resp.StatusCode,
			Body:     excerpt(body),
			Err:      errors.Wrap(err, "invalid JSON"),
		}
	}

	log.Debug().Str("url", url).Int("bytes", len(body)).Msg("Fetched seed resource")
	return nil
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodyExcerpt {
		n := maxBodyExcerpt
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		return s[:n] + "..."
	}
	return s
}
