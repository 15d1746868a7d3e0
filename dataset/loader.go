package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ============================================================================
// LOADER — Fetch, validate and memoize datasets
// ============================================================================
// One Loader per process. Loads are memoized per source identity: once a
// source has loaded, every later Load for it is served from cache, so
// repeated dashboard hits never re-fetch. Failures are NOT cached; the
// next Load retries. Concurrent first loads of the same source collapse
// into a single fetch.
// ============================================================================

// DefaultFetchTimeout bounds a fetch when the caller configures none.
const DefaultFetchTimeout = 30 * time.Second

// Loader fetches CSV sources over HTTP or from local paths and memoizes
// the parsed result per source.
type Loader struct {
	client  *http.Client
	timeout time.Duration
	log     *zap.Logger

	mu    sync.RWMutex
	cache map[string]*Dataset

	group singleflight.Group
}

// NewLoader returns a Loader whose fetches are bounded by timeout.
func NewLoader(timeout time.Duration, log *zap.Logger) *Loader {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		log:     log,
		cache:   make(map[string]*Dataset),
	}
}

// Load returns the dataset for source, fetching and parsing it on first
// use. Later calls for the same source return the memoized dataset without
// touching the network.
func (l *Loader) Load(ctx context.Context, source string) (*Dataset, error) {
	if ds := l.cached(source); ds != nil {
		return ds, nil
	}

	v, err, _ := l.group.Do(source, func() (interface{}, error) {
		if ds := l.cached(source); ds != nil {
			return ds, nil
		}
		ds, err := l.load(ctx, source)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[source] = ds
		l.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// Cached reports whether source already has a memoized dataset.
func (l *Loader) Cached(source string) bool {
	return l.cached(source) != nil
}

func (l *Loader) cached(source string) *Dataset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[source]
}

func (l *Loader) load(ctx context.Context, source string) (*Dataset, error) {
	start := time.Now()

	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}

	records, skipped, err := ParseCSV(data)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Source = source
			return nil, schemaErr
		}
		return nil, &LoadError{Source: source, Stage: StageParse, Err: err}
	}

	ds := &Dataset{
		Records:  records,
		Source:   source,
		LoadedAt: time.Now(),
		Skipped:  skipped,
	}
	l.log.Info("dataset loaded",
		zap.String("source", source),
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped),
		zap.Duration("elapsed", time.Since(start)))
	return ds, nil
}

// read resolves source as an HTTP(S) URL or a local file path.
func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetch(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, &LoadError{Source: source, Stage: StageRead, Err: err}
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &LoadError{Source: url, Stage: StageFetch, Err: err}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: url, Stage: StageFetch, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Source: url, Stage: StageFetch,
			Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: url, Stage: StageFetch, Err: err}
	}
	return data, nil
}
