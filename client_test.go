package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	api := &fakeAPI{status: http.StatusOK, body: `{"success":true}`}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)

		api.mu.Lock()
		api.requests = append(api.requests, recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     string(b),
		})
		status, body := api.status, api.body
		api.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(api.Close)

	return api
}

func (a *fakeAPI) respond(status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.status = status
	a.body = body
}

func (a *fakeAPI) recorded() []recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]recordedRequest(nil), a.requests...)
}

func (a *fakeAPI) last(t *testing.T) recordedRequest {
	t.Helper()

	reqs := a.recorded()
	require.NotEmpty(t, reqs, "no request reached the server")

	return reqs[len(reqs)-1]
}

func newTestClient(t *testing.T, baseURL string, options ...ClientOption) *Client {
	t.Helper()

	c, err := NewClient("test-api-key", append([]ClientOption{WithBaseURL(baseURL)}, options...)...)
	require.NoError(t, err)

	return c
}

func TestNewClient(t *testing.T) {
	t.Run("empty api key", func(t *testing.T) {
		c, err := NewClient("")
		assert.Nil(t, c)

		var configErr *ConfigError
		require.ErrorAs(t, err, &configErr)
		assert.ErrorIs(t, err, ErrAPIKeyMissing)
	})

	t.Run("defaults", func(t *testing.T) {
		c, err := NewClient("key")
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, c.BaseURL())
		assert.Equal(t, DefaultTimeout, c.timeout)
		assert.Equal(t, 0, c.http.RetryMax)
		assert.Equal(t, DefaultTimeout, c.http.HTTPClient.Timeout)
	})

	t.Run("options", func(t *testing.T) {
		c, err := NewClient("key",
			WithBaseURL("https://licenses.example.com/functions/v1/"),
			WithTimeout(5*time.Second),
			WithRetryMax(2),
			WithUserAgent("acme/2.0"),
		)
		require.NoError(t, err)
		assert.Equal(t, "https://licenses.example.com/functions/v1", c.BaseURL())
		assert.Equal(t, 5*time.Second, c.http.HTTPClient.Timeout)
		assert.Equal(t, 2, c.http.RetryMax)
		assert.Equal(t, "acme/2.0", c.userAgent)
	})

	t.Run("invalid options", func(t *testing.T) {
		for name, opt := range map[string]ClientOption{
			"base url":  WithBaseURL("not a url"),
			"timeout":   WithTimeout(0),
			"retry max": WithRetryMax(-1),
		} {
			_, err := NewClient("key", opt)

			var configErr *ConfigError
			assert.ErrorAs(t, err, &configErr, name)
		}
	})
}

func TestRequestShape(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api.URL)
	ctx := context.Background()
	hostname, _ := os.Hostname()

	tests := []struct {
		name   string
		call   func() (Result, error)
		method string
		path   string
		query  string
		body   string
	}{
		{
			name:   "validate",
			call:   func() (Result, error) { return c.ValidateLicense(ctx, "ABC-123", "deadbeef") },
			method: http.MethodPost,
			path:   "/license-api/validate",
			body:   `{"license_key":"ABC-123","hwid":"deadbeef","product_id":null}`,
		},
		{
			name: "validate with product",
			call: func() (Result, error) {
				return c.ValidateLicense(ctx, "ABC-123", "deadbeef", ValidateProduct("prod-1"))
			},
			method: http.MethodPost,
			path:   "/license-api/validate",
			body:   `{"license_key":"ABC-123","hwid":"deadbeef","product_id":"prod-1"}`,
		},
		{
			name:   "activate",
			call:   func() (Result, error) { return c.ActivateLicense(ctx, "ABC-123", "deadbeef") },
			method: http.MethodPost,
			path:   "/license-api/activate",
			body:   `{"license_key":"ABC-123","hwid":"deadbeef","machine_name":` + mustJSON(t, hostname) + `}`,
		},
		{
			name: "activate with machine name",
			call: func() (Result, error) {
				return c.ActivateLicense(ctx, "ABC-123", "deadbeef", ActivateMachineName("build-01"))
			},
			method: http.MethodPost,
			path:   "/license-api/activate",
			body:   `{"license_key":"ABC-123","hwid":"deadbeef","machine_name":"build-01"}`,
		},
		{
			name:   "deactivate",
			call:   func() (Result, error) { return c.DeactivateLicense(ctx, "ABC-123", "deadbeef") },
			method: http.MethodPost,
			path:   "/license-api/deactivate",
			body:   `{"license_key":"ABC-123","hwid":"deadbeef"}`,
		},
		{
			name:   "info",
			call:   func() (Result, error) { return c.GetLicenseInfo(ctx, "ABC-123") },
			method: http.MethodGet,
			path:   "/license-api/info",
			query:  "license_key=ABC-123",
		},
		{
			name:   "heartbeat",
			call:   func() (Result, error) { return c.SendHeartbeat(ctx, "ABC-123", "deadbeef") },
			method: http.MethodPost,
			path:   "/license-api/heartbeat",
			body:   `{"license_key":"ABC-123","hwid":"deadbeef","status":"running"}`,
		},
		{
			name:   "heartbeat with status",
			call:   func() (Result, error) { return c.SendHeartbeat(ctx, "ABC-123", "deadbeef", HeartbeatStatus("idle")) },
			method: http.MethodPost,
			path:   "/license-api/heartbeat",
			body:   `{"license_key":"ABC-123","hwid":"deadbeef","status":"idle"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.call()
			require.NoError(t, err)
			assert.True(t, result.Success())

			req := api.last(t)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.query, req.RawQuery)
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Equal(t, "test-api-key", req.Header.Get("x-api-key"))
			assert.True(t, strings.HasPrefix(req.Header.Get("User-Agent"), "gateway-sdk/"+SDKVersion))

			if tt.body == "" {
				assert.Empty(t, req.Body)
			} else {
				assert.JSONEq(t, tt.body, req.Body)
			}
		})
	}
}

func TestInfoQueryIsEscaped(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api.URL)

	_, err := c.GetLicenseInfo(context.Background(), "A B&C")
	require.NoError(t, err)
	assert.Equal(t, "license_key=A+B%26C", api.last(t).RawQuery)
}

func TestResultIsReturnedVerbatim(t *testing.T) {
	api := newFakeAPI(t)
	api.respond(http.StatusOK, `{"valid":false,"error":"License has expired","extra":{"n":1}}`)
	c := newTestClient(t, api.URL)

	result, err := c.ValidateLicense(context.Background(), "ABC-123", "deadbeef")
	require.NoError(t, err)
	assert.False(t, result.Valid())
	assert.Equal(t, "License has expired", result.ErrorMessage())
	assert.Equal(t, map[string]interface{}{"n": float64(1)}, result["extra"])
}

func TestHTTPStatusError(t *testing.T) {
	api := newFakeAPI(t)
	api.respond(http.StatusNotFound, `{"error":"not found"}`)
	c := newTestClient(t, api.URL)

	_, err := c.ValidateLicense(context.Background(), "ABC-123", "deadbeef")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "License validation failed: "), err.Error())

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OperationValidate, opErr.Op)

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode())
	assert.JSONEq(t, `{"error":"not found"}`, string(statusErr.Body()))
}

func TestServerErrorIsNotRetried(t *testing.T) {
	api := newFakeAPI(t)
	api.respond(http.StatusInternalServerError, `{"error":"Internal server error"}`)
	c := newTestClient(t, api.URL)

	_, err := c.SendHeartbeat(context.Background(), "ABC-123", "deadbeef")

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode())
	assert.Contains(t, err.Error(), "Heartbeat failed")
	assert.Len(t, api.recorded(), 1)
}

func TestDecodeError(t *testing.T) {
	for _, body := range []string{"not-json", "null", `["a"]`, ""} {
		t.Run(body, func(t *testing.T) {
			api := newFakeAPI(t)
			api.respond(http.StatusOK, body)
			c := newTestClient(t, api.URL)

			_, err := c.GetLicenseInfo(context.Background(), "ABC-123")

			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, http.StatusOK, decodeErr.Response.Status)
			assert.True(t, strings.HasPrefix(err.Error(), "Failed to get license info: "), err.Error())
		})
	}
}

func TestTimeoutError(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	t.Run("client timeout", func(t *testing.T) {
		c := newTestClient(t, slow.URL, WithTimeout(50*time.Millisecond))

		_, err := c.DeactivateLicense(context.Background(), "ABC-123", "deadbeef")

		var timeoutErr *TimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		assert.Equal(t, 50*time.Millisecond, timeoutErr.Limit)
		assert.True(t, timeoutErr.Timeout())
		assert.Contains(t, err.Error(), "License deactivation failed")
	})

	t.Run("context deadline", func(t *testing.T) {
		c := newTestClient(t, slow.URL)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := c.ActivateLicense(ctx, "ABC-123", "deadbeef")

		var timeoutErr *TimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		assert.Contains(t, err.Error(), "License activation failed")
	})
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)

	_, err := c.ValidateLicense(context.Background(), "ABC-123", "deadbeef")

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.MethodPost, transportErr.Method)
	assert.NotNil(t, errors.Unwrap(transportErr))

	var timeoutErr *TimeoutError
	assert.False(t, errors.As(err, &timeoutErr))
}

func TestUnsupportedMethod(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api.URL)

	_, err := c.send(context.Background(), http.MethodPatch, "/license-api/validate", nil, nil)

	var methodErr *UnsupportedMethodError
	require.ErrorAs(t, err, &methodErr)
	assert.Equal(t, http.MethodPatch, methodErr.Method)
	assert.Empty(t, api.recorded())
}

func TestPutAndDelete(t *testing.T) {
	api := newFakeAPI(t)
	c := newTestClient(t, api.URL)
	ctx := context.Background()

	var result Result
	_, err := c.Put(ctx, "/license-api/anything", map[string]string{"k": "v"}, &result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":"v"}`, api.last(t).Body)

	_, err = c.Delete(ctx, "/license-api/anything", map[string]string{"k": "v"}, &result)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, api.last(t).Method)
	assert.Empty(t, api.last(t).Body)
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)

	return string(b)
}
