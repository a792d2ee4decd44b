package vep

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://unused/vep", nil)
	require.NoError(t, err)
	return req
}

func TestBreakerDoerPassesThroughResponses(t *testing.T) {
	transport := doerFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`[]`)),
		}, nil
	})

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	doer := NewBreakerDoer(transport, logger)

	resp, err := doer.Do(newTestRequest(t))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBreakerDoerIgnoresServerStatuses(t *testing.T) {
	// 5xx responses are the retry machine's concern, not the breaker's: a
	// long run of them must not open the circuit.
	transport := doerFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       io.NopCloser(strings.NewReader(``)),
		}, nil
	})

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	doer := NewBreakerDoer(transport, logger)

	for i := 0; i < 10; i++ {
		resp, err := doer.Do(newTestRequest(t))
		require.NoError(t, err)
		resp.Body.Close()
	}
}

func TestBreakerDoerOpensOnTransportFailures(t *testing.T) {
	transport := doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	doer := NewBreakerDoer(transport, logger)

	var sawOpen bool
	for i := 0; i < 10; i++ {
		_, err := doer.Do(newTestRequest(t))
		require.Error(t, err)
		if errors.Is(err, gobreaker.ErrOpenState) {
			sawOpen = true
			break
		}
	}
	assert.True(t, sawOpen, "sustained transport failures should open the breaker")
}
