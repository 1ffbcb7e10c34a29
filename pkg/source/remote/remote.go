// Package remote loads family snapshots from an HTTP endpoint that serves a
// JSON tree, such as an export endpoint of the family service.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/graph"
)

const (
	httpTimeout = 15 * time.Second
	// maxBody caps the size of a downloaded tree.
	maxBody = 64 << 20
)

// Source fetches a [graph.Tree] over HTTP on every Load.
type Source struct {
	url     string
	http    *http.Client
	headers map[string]string

	mu    sync.Mutex
	roots []string
}

// Option configures a Source.
type Option func(*Source)

// WithHeader sets a request header, e.g. Authorization.
func WithHeader(key, value string) Option {
	return func(s *Source) { s.headers[key] = value }
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) { s.http = c }
}

// New returns a source for url. Only http and https are accepted.
func New(url string, opts ...Option) (*Source, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	s := &Source{
		url:     url,
		http:    &http.Client{Timeout: httpTimeout},
		headers: map[string]string{"Accept": "application/json"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load downloads and converts the tree, retrying network failures and 5xx
// responses.
func (s *Source) Load(ctx context.Context) (*family.Snapshot, error) {
	var tree graph.Tree
	err := cache.RetryWithBackoff(ctx, func() error {
		t, err := s.fetch(ctx)
		if err != nil {
			return err
		}
		tree = t
		return nil
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "fetch %s", s.url)
	}

	snap, err := tree.Snapshot()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.roots = append([]string(nil), tree.Roots...)
	s.mu.Unlock()
	return snap, nil
}

func (s *Source) fetch(ctx context.Context) (graph.Tree, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return graph.Tree{}, err
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return graph.Tree{}, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrUnavailable, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return graph.Tree{}, err
	}
	return graph.ReadTree(io.LimitReader(resp.Body, maxBody))
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "tree not found (status %d)", code)
	case code == http.StatusTooManyRequests, code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrUnavailable, code))
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}

// DefaultRoots returns the roots carried by the last downloaded tree.
func (s *Source) DefaultRoots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.roots...)
}

// CacheKey identifies the endpoint for snapshot caching.
func (s *Source) CacheKey() string { return "remote:" + s.url }

func (s *Source) String() string { return s.url }
