package gateway

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

type ClientOption func(*Client) error

// WithBaseURL points the client at a different deployment of the license API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) error {
		u, err := url.Parse(baseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &ConfigError{Field: "base URL", Err: ErrBaseURLInvalid}
		}

		c.baseURL = strings.TrimRight(baseURL, "/")

		return nil
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout <= 0 {
			return &ConfigError{Field: "timeout", Err: ErrTimeoutInvalid}
		}

		c.timeout = timeout

		return nil
	}
}

// WithUserAgent appends an integration identifier to the SDK user-agent.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) error {
		c.userAgent = ua

		return nil
	}
}

func WithLogger(logger LoggerInterface) ClientOption {
	return func(c *Client) error {
		c.logger = logger

		return nil
	}
}

// WithHTTPClient replaces the pooled HTTP client used for transport. The
// client timeout is still applied on top of it.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) error {
		c.httpClient = client

		return nil
	}
}

// WithRetryMax enables automatic retries of failed requests. The default is
// zero: every failure is surfaced to the caller after a single attempt.
func WithRetryMax(n int) ClientOption {
	return func(c *Client) error {
		if n < 0 {
			return &ConfigError{Field: "retry max", Err: ErrRetryMaxInvalid}
		}

		c.retryMax = n

		return nil
	}
}

// WithHeartbeatErrorHandler registers a callback invoked from the heartbeat
// loop whenever a heartbeat fails.
func WithHeartbeatErrorHandler(fn func(error)) ClientOption {
	return func(c *Client) error {
		c.onHeartbeatError = fn

		return nil
	}
}

type ValidateOptions struct {
	ProductID *string
}

type ValidateOption func(*ValidateOptions)

// ValidateProduct scopes a validation to a product.
func ValidateProduct(id string) ValidateOption {
	return func(options *ValidateOptions) {
		options.ProductID = &id
	}
}

type ActivateOptions struct {
	MachineName string
}

type ActivateOption func(*ActivateOptions)

// ActivateMachineName overrides the machine name recorded with an activation.
// The local host name is used by default.
func ActivateMachineName(name string) ActivateOption {
	return func(options *ActivateOptions) {
		options.MachineName = name
	}
}

type HeartbeatOptions struct {
	Status string
}

type HeartbeatOption func(*HeartbeatOptions)

func HeartbeatStatus(status string) HeartbeatOption {
	return func(options *HeartbeatOptions) {
		options.Status = status
	}
}
