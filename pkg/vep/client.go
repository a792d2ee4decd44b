// Package vep is a resilient client for Ensembl-VEP-style annotation and
// variant-recoder services: notation-aware request shaping, outbound rate
// limiting, two-tier response caching, and retry with backoff that honors
// server-supplied wait hints.
package vep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vep-annotation-client/internal/domain"
	"github.com/vep-annotation-client/pkg/notation"
)

// Request kinds used for cache key derivation.
const (
	kindAnnotate = "annotate"
	kindRecode   = "recode"
)

// ClientConfig represents configuration for the annotation client.
type ClientConfig struct {
	BaseURL            string        `json:"base_url"`
	Timeout            time.Duration `json:"timeout"`
	RequestsPerSecond  float64       `json:"requests_per_second"`
	MaxRetries         int           `json:"max_retries"`
	RetryBackoffFactor float64       `json:"retry_backoff_factor"`
	CacheTTL           time.Duration `json:"cache_ttl"`
}

// Client orchestrates HTTP calls to the annotation and recoder endpoints.
// One instance is safe for use by any number of concurrent callers; the
// rate limiter and cache are the only shared mutable state and both guard
// themselves.
type Client struct {
	baseURL       string
	transport     Doer
	limiter       *RateLimiter
	cache         Cache
	logger        *logrus.Logger
	maxRetries    int
	backoffFactor float64
	cacheTTL      time.Duration
}

// NewClient creates an annotation client. transport may be nil (a default
// *http.Client with the configured timeout is used), as may cache (an
// in-process cache) and logger.
func NewClient(config ClientConfig, transport Doer, cache Cache, logger *logrus.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://rest.ensembl.org"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 15 // Ensembl allows 15 requests per second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryBackoffFactor == 0 {
		config.RetryBackoffFactor = 2
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 24 * time.Hour
	}
	if transport == nil {
		transport = &http.Client{Timeout: config.Timeout}
	}
	if cache == nil {
		cache, _ = NewMemoryCache(DefaultMemoryCacheSize)
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Client{
		baseURL:       strings.TrimRight(config.BaseURL, "/"),
		transport:     transport,
		limiter:       NewRateLimiter(config.RequestsPerSecond),
		cache:         cache,
		logger:        logger,
		maxRetries:    config.MaxRetries,
		backoffFactor: config.RetryBackoffFactor,
		cacheTTL:      config.CacheTTL,
	}
}

// AnnotateVariant classifies a raw notation, queries the annotation endpoint
// and returns the structured consequence annotation. Cache hits short-circuit
// with Cached=true and touch neither the network nor the rate limiter.
// Unclassifiable input is rejected with ErrUnrecognizedFormat before any I/O.
func (c *Client) AnnotateVariant(ctx context.Context, raw string) (*domain.AnnotationResult, error) {
	log := c.logger.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"notation":   raw,
	})

	key := CacheKey(kindAnnotate, raw)
	if payload, ok := c.cache.GetJSON(ctx, key); ok {
		var result domain.AnnotationResult
		if err := json.Unmarshal(payload, &result); err == nil {
			result.Cached = true
			log.Debug("Annotation served from cache")
			return &result, nil
		}
	}

	v := notation.ClassifyNotation(raw)
	log = log.WithField("family", v.Family)

	build, err := c.annotationRequest(v)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	body, err := c.doWithRetry(ctx, log, build)
	if err != nil {
		return nil, err
	}

	result, err := decodeAnnotationBody(body)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(result); err == nil {
		c.cache.SetJSON(ctx, key, payload, c.cacheTTL)
	}

	log.WithField("most_severe_consequence", result.MostSevereConsequence).
		Debug("Annotation retrieved from upstream")
	return result, nil
}

// annotationRequest maps a classified notation onto the matching endpoint.
// The builder is re-invoked per retry attempt so request bodies are fresh.
func (c *Client) annotationRequest(v domain.VariantNotation) (func(context.Context) (*http.Request, error), error) {
	switch v.Family {
	case domain.FormatVCF:
		region, ok := notation.ToUpstreamRegion(v.Raw)
		if !ok {
			return nil, fmt.Errorf("%w: malformed VCF-style token %q", ErrUnrecognizedFormat, v.Raw)
		}
		endpoint := c.baseURL + "/vep/human/region"
		return func(ctx context.Context) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(region))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "text/plain")
			req.Header.Set("Accept", "application/json")
			return req, nil
		}, nil

	case domain.FormatHGVSc, domain.FormatHGVSp, domain.FormatHGVSg, domain.FormatSPDI:
		endpoint := c.baseURL + "/vep/human/hgvs/" + url.PathEscape(v.Raw)
		return func(ctx context.Context) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Accept", "application/json")
			return req, nil
		}, nil

	case domain.FormatCNV:
		return nil, fmt.Errorf("%w: copy-number notation %q cannot be annotated by the VEP endpoints", ErrUnrecognizedFormat, v.Raw)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, v.Raw)
	}
}

// RecodeVariant converts one variant representation into its equivalent
// notations via the Variant Recoder. VCF-family input is first annotated to
// obtain an upstream variant id; failure there is terminal.
func (c *Client) RecodeVariant(ctx context.Context, raw string) (*domain.RecodedForms, error) {
	log := c.logger.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"notation":   raw,
	})

	key := CacheKey(kindRecode, raw)
	if payload, ok := c.cache.GetJSON(ctx, key); ok {
		var forms domain.RecodedForms
		if err := json.Unmarshal(payload, &forms); err == nil {
			log.Debug("Recoded forms served from cache")
			return &forms, nil
		}
	}

	v := notation.ClassifyNotation(raw)
	log = log.WithField("family", v.Family)

	var target string
	switch {
	case v.Family == domain.FormatVCF:
		annotation, err := c.AnnotateVariant(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("resolving upstream variant id for %q: %w", raw, err)
		}
		id := firstColocatedID(annotation)
		if id == "" {
			return nil, fmt.Errorf("%w: annotation for %q carries no colocated variant id", ErrUnexpectedShape, raw)
		}
		target = id
	case notation.IsHGVS(v.Family) || v.Family == domain.FormatSPDI:
		target = raw
	default:
		return nil, fmt.Errorf("%w: %q cannot be recoded", ErrUnrecognizedFormat, raw)
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/variant_recoder/human/" + url.PathEscape(target)
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	body, err := c.doWithRetry(ctx, log, build)
	if err != nil {
		return nil, err
	}

	forms, err := decodeRecoderBody(body)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(forms); err == nil {
		c.cache.SetJSON(ctx, key, payload, c.cacheTTL)
	}

	log.Debug("Recoded forms retrieved from upstream")
	return forms, nil
}

func firstColocatedID(annotation *domain.AnnotationResult) string {
	for _, cv := range annotation.ColocatedVariants {
		if cv.ID != "" {
			return cv.ID
		}
	}
	return ""
}

// doWithRetry runs the retry state machine: 200 succeeds, 429 honors
// Retry-After without consuming an attempt slot, 500/503 and transport
// errors back off exponentially up to maxRetries, everything else is fatal.
// Sleeps are context-aware; cancellation surfaces promptly and does not
// count as an attempt.
func (c *Client) doWithRetry(ctx context.Context, log *logrus.Entry, build func(context.Context) (*http.Request, error)) ([]byte, error) {
	attempt := 0
	for {
		req, err := build(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.transport.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if retryErr := c.nextAttempt(ctx, log, &attempt, err); retryErr != nil {
				return nil, retryErr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.inspectRateHeaders(log, resp)

		switch resp.StatusCode {
		case http.StatusOK:
			if readErr != nil {
				if retryErr := c.nextAttempt(ctx, log, &attempt, readErr); retryErr != nil {
					return nil, retryErr
				}
				continue
			}
			return body, nil

		case http.StatusTooManyRequests:
			// Honored unconditionally; bounded only by the caller's deadline.
			wait := retryAfter(resp)
			log.WithField("retry_after", wait).Warn("Upstream rate limited the request")
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
			continue

		case http.StatusInternalServerError, http.StatusServiceUnavailable:
			statusErr := fmt.Errorf("upstream returned status %d", resp.StatusCode)
			if retryErr := c.nextAttempt(ctx, log, &attempt, statusErr); retryErr != nil {
				return nil, retryErr
			}
			continue

		default:
			return nil, fmt.Errorf("%w: status %d", ErrUpstreamRejected, resp.StatusCode)
		}
	}
}

// nextAttempt accounts one transient failure. It returns nil after sleeping
// the backoff delay when attempts remain, or the terminal error when the
// budget is spent or the context is cancelled mid-sleep.
func (c *Client) nextAttempt(ctx context.Context, log *logrus.Entry, attempt *int, cause error) error {
	*attempt++
	if *attempt >= c.maxRetries {
		return fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, *attempt, cause)
	}

	delay := c.backoffDelay(*attempt)
	log.WithFields(logrus.Fields{
		"attempt": *attempt,
		"delay":   delay,
	}).WithError(cause).Debug("Transient upstream failure, backing off")

	return sleepCtx(ctx, delay)
}

// backoffDelay is backoffFactor^attempt seconds: factor, factor², ...
func (c *Client) backoffDelay(attempt int) time.Duration {
	return time.Duration(math.Pow(c.backoffFactor, float64(attempt)) * float64(time.Second))
}

// retryAfter reads the Retry-After header in seconds, defaulting to one
// second when absent or garbled.
func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return time.Second
	}
	seconds, err := strconv.ParseFloat(header, 64)
	if err != nil || seconds <= 0 {
		return time.Second
	}
	return time.Duration(seconds * float64(time.Second))
}

// inspectRateHeaders surfaces a warning when upstream rate-limit headroom
// drops below 10%. Observational only.
func (c *Client) inspectRateHeaders(log *logrus.Entry, resp *http.Response) {
	remaining, err1 := strconv.ParseFloat(resp.Header.Get("X-RateLimit-Remaining"), 64)
	limit, err2 := strconv.ParseFloat(resp.Header.Get("X-RateLimit-Limit"), 64)
	if err1 != nil || err2 != nil || limit <= 0 {
		return
	}
	if remaining/limit < 0.1 {
		log.WithFields(logrus.Fields{
			"remaining": remaining,
			"limit":     limit,
		}).Warn("Upstream rate limit headroom below 10%")
	}
}

// sleepCtx sleeps for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
