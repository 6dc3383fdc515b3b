package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/DeepanshuK43/cropml/pkg/errors"
	pkglog "github.com/DeepanshuK43/cropml/pkg/log"
)

// DefaultTimeout bounds each store call. Expiry surfaces as a RemoteError,
// not an indefinite hang.
const DefaultTimeout = 5 * time.Second

// HTTPStore talks to a JSON-over-HTTP key-value backend. Paths map to
// "<base>/<path>.json"; Get expects a JSON document or null, Put patches a
// {key: value} object into the path.
type HTTPStore struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPStore) { s.timeout = d }
}

// WithHTTPClient substitutes the underlying client, mainly for tests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) { s.client = c }
}

// WithLogger substitutes the request logger.
func WithLogger(l zerolog.Logger) HTTPOption {
	return func(s *HTTPStore) { s.logger = l }
}

// NewHTTPStore creates a store client for the given base URL.
func NewHTTPStore(baseURL string, opts ...HTTPOption) *HTTPStore {
	s := &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: DefaultTimeout,
		logger:  pkglog.NewZerolog("remote"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPStore) url(path string) string {
	return s.baseURL + "/" + strings.Trim(path, "/") + ".json"
}

// Get reads the document at path. A JSON null (or empty body) means the path
// holds nothing.
func (s *HTTPStore) Get(ctx context.Context, path string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(path), nil)
	if err != nil {
		return "", false, errors.NewRemoteError("get", path, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn().Str("path", path).Err(err).Msg("get failed")
		return "", false, errors.NewRemoteError("get", path, errors.Wrap(errors.ErrStoreUnavailable, err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn().Str("path", path).Int("status", resp.StatusCode).Msg("get rejected")
		return "", false, errors.NewRemoteError("get", path, errors.Newf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, errors.NewRemoteError("get", path, err)
	}

	value := strings.TrimSpace(string(body))
	if value == "" || value == "null" {
		s.logger.Debug().Str("path", path).Msg("get: absent")
		return "", false, nil
	}

	// Unwrap plain JSON strings so callers see the bare value.
	var str string
	if err := json.Unmarshal(body, &str); err == nil {
		value = str
	}

	s.logger.Debug().Str("path", path).Msg("get: ok")
	return value, true, nil
}

// Put patches key=value into the document at path. One attempt, no retry.
func (s *HTTPStore) Put(ctx context.Context, path, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{key: value})
	if err != nil {
		return errors.NewRemoteError("put", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.url(path), bytes.NewReader(body))
	if err != nil {
		return errors.NewRemoteError("put", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn().Str("path", path).Err(err).Msg("put failed")
		return errors.NewRemoteError("put", path, errors.Wrap(errors.ErrStoreUnavailable, err.Error()))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn().Str("path", path).Int("status", resp.StatusCode).Msg("put rejected")
		return errors.NewRemoteError("put", path, errors.Newf("unexpected status %d", resp.StatusCode))
	}

	s.logger.Debug().Str("path", path).Str("key", key).Msg("put: ok")
	return nil
}
