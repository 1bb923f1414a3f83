package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amaumene/cinelist/internal/config"
	"github.com/amaumene/cinelist/internal/metrics"
	"github.com/amaumene/cinelist/internal/models"
	"github.com/amaumene/cinelist/internal/services/cache"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

var tracer = otel.Tracer("github.com/amaumene/cinelist/internal/services/tmdb")

// StatusError is a non-2xx TMDB response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDB request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client handles communication with the TMDB v3 API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache
	ttl        time.Duration
	retries    int
	retryWait  time.Duration
	group      singleflight.Group
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, c cache.Cache, logger *logrus.Logger) *Client {
	base := cfg.TMDBBaseURL
	if base == "" {
		base = defaultBaseURL
	}
	ttl := cfg.TMDBCacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Client{
		apiKey:     cfg.TMDBAPIKey,
		baseURL:    base,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      c,
		ttl:        ttl,
		retries:    cfg.TMDBRetries,
		retryWait:  500 * time.Millisecond,
		logger:     logger,
	}
}

// doRequest performs a GET against TMDB and decodes the JSON body into result.
// Bodies are cached for the revalidation window and identical in-flight
// requests share one upstream call.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) (err error) {
	ctx, span := tracer.Start(ctx, "tmdb."+path, trace.WithAttributes(attribute.String("tmdb.path", path)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	key := path
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	if body, ok := c.cache.Get(ctx, key); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return json.Unmarshal(body, result)
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	// the shared fetch outlives any one caller; each caller still stops
	// waiting when its own context ends
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		body, err := c.fetch(fetchCtx, path, params)
		if err != nil {
			return nil, err
		}
		c.cache.Set(fetchCtx, key, body, c.ttl)
		return body, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}
	if res.Err != nil {
		return res.Err
	}
	span.SetAttributes(attribute.Bool("singleflight.shared", res.Shared))

	if err := json.Unmarshal(res.Val.([]byte), result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// fetch performs the HTTP call, retrying 429 and 503 with exponential backoff
func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, error) {
	query := url.Values{}
	for k, vs := range params {
		query[k] = vs
	}
	query.Set("api_key", c.apiKey)
	fullURL := c.baseURL + "/" + path + "?" + query.Encode()

	c.logger.WithFields(logrus.Fields{
		"path":   path,
		"params": params.Encode(),
	}).Debug("Making TMDB API request")

	start := time.Now()
	defer func() {
		metrics.TMDBLatency.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}()

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.TMDBRequests.WithLabelValues(path, "transport_error").Inc()
			return backoff.Permanent(fmt.Errorf("request failed: %w", err))
		}
		defer resp.Body.Close()

		metrics.TMDBRequests.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
				c.logger.WithFields(logrus.Fields{
					"path":    path,
					"status":  resp.StatusCode,
					"attempt": attempt,
				}).Warn("TMDB throttled request")
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response: %w", err))
		}
		body = b
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWait
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retries)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}

// IsNotFound reports whether TMDB answered 404
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// Warm fetches the landing catalogs so the first visitor hits the cache
func (c *Client) Warm(ctx context.Context) error {
	var errs []error
	for _, mt := range []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV} {
		if _, err := c.Popular(ctx, mt); err != nil {
			errs = append(errs, err)
		}
		if _, err := c.TopRated(ctx, mt); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.Upcoming(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
