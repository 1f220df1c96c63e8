package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

var errResponseNotObject = errors.New("response body is not a JSON object")

type Response struct {
	Request *http.Request
	ID      string
	Headers http.Header
	Size    int
	Body    []byte
	Status  int
}

// Truncate the response body if it's too large, just in case this is some sort
// of unexpected response format, e.g. an HTML error page from infra.
func (r *Response) tldr() string {
	tldr := string(r.Body)
	if len(tldr) > 500 {
		tldr = tldr[0:500] + "..."
	}

	// Make sure a multi-line response ends up all on one line.
	tldr = strings.Replace(tldr, "\n", "\\n", -1)

	return tldr
}

// Client talks to the license API. The API key and base URL are fixed for
// the lifetime of a Client. A Client is safe for concurrent use.
type Client struct {
	apiKey           string
	baseURL          string
	userAgent        string
	timeout          time.Duration
	retryMax         int
	logger           LoggerInterface
	httpClient       *http.Client
	onHeartbeatError func(error)
	http             *retryablehttp.Client

	mu        sync.Mutex
	heartbeat *heartbeatTask
}

// NewClient returns a Client authenticating with apiKey. It returns a
// *ConfigError if apiKey is empty or an option is invalid.
func NewClient(apiKey string, options ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, &ConfigError{Field: "API key", Err: ErrAPIKeyMissing}
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}

	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	var hc http.Client
	if c.httpClient != nil {
		hc = *c.httpClient
	} else {
		hc = *cleanhttp.DefaultPooledClient()

		// We don't want to automatically follow redirects
		hc.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	hc.Timeout = c.timeout

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &hc
	rc.RetryMax = c.retryMax
	rc.Logger = retryLogger{c}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c.http = rc

	return c, nil
}

// BaseURL returns the API origin the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) log() LoggerInterface {
	if c.logger != nil {
		return c.logger
	}

	return Logger
}

func (c *Client) Post(ctx context.Context, path string, params interface{}, model *Result) (*Response, error) {
	return c.send(ctx, http.MethodPost, path, params, model)
}

func (c *Client) Get(ctx context.Context, path string, params interface{}, model *Result) (*Response, error) {
	return c.send(ctx, http.MethodGet, path, params, model)
}

func (c *Client) Put(ctx context.Context, path string, params interface{}, model *Result) (*Response, error) {
	return c.send(ctx, http.MethodPut, path, params, model)
}

func (c *Client) Delete(ctx context.Context, path string, params interface{}, model *Result) (*Response, error) {
	return c.send(ctx, http.MethodDelete, path, params, model)
}

func (c *Client) send(ctx context.Context, method string, path string, params interface{}, model *Result) (*Response, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, &UnsupportedMethodError{Method: method}
	}

	url := c.baseURL + path
	ua := strings.TrimSpace(strings.Join([]string{userAgent, c.userAgent}, " "))

	var body []byte

	if params != nil {
		if method == http.MethodPost || method == http.MethodPut {
			serialized, err := json.Marshal(params)
			if err != nil {
				return nil, err
			}

			body = serialized
		}

		if qs, ok := params.(querystring); ok {
			values, err := query.Values(qs)
			if err != nil {
				return nil, err
			}

			if enc := values.Encode(); enc != "" {
				url += "?" + enc
			}
		}
	}

	c.log().Infof("Request: method=%s url=%s size=%d", method, url, len(body))
	if len(body) > 0 {
		c.log().Debugf("        body=%s", body)
	}

	var raw interface{}
	if body != nil {
		raw = body
	}

	req, err := retryablehttp.NewRequest(method, url, raw)
	if err != nil {
		c.log().Errorf("Error building request: method=%s url=%s err=%v", method, url, err)

		return nil, err
	}
	req = req.WithContext(ctx)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", ua)
	req.Header.Set(APIKeyHeader, c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		c.log().Errorf("Error performing request: method=%s url=%s err=%v", method, url, err)

		return nil, c.transportError(method, url, err)
	}

	requestID := res.Header.Get("x-request-id")
	if requestID == "" {
		requestID = res.Header.Get("sb-request-id")
	}

	out, err := io.ReadAll(res.Body)
	res.Body.Close()

	if err != nil {
		c.log().Errorf("Error reading response body: id=%s status=%d err=%v", requestID, res.StatusCode, err)

		return nil, c.transportError(method, url, err)
	}

	response := &Response{
		Request: res.Request,
		ID:      requestID,
		Status:  res.StatusCode,
		Headers: res.Header,
		Size:    len(out),
		Body:    out,
	}

	c.log().Infof("Response: id=%s status=%d size=%d", response.ID, response.Status, response.Size)
	if response.Size > 0 {
		c.log().Debugf("         body=%s", response.Body)
	}

	if response.Status < http.StatusOK || response.Status >= http.StatusMultipleChoices {
		if response.Status >= http.StatusInternalServerError {
			c.log().Errorf("An unexpected API error occurred: id=%s status=%d size=%d body=%s", response.ID, response.Status, response.Size, response.tldr())
		} else {
			c.log().Warnf("API request was not successful: id=%s status=%d size=%d body=%s", response.ID, response.Status, response.Size, response.tldr())
		}

		return response, &HTTPStatusError{Response: response}
	}

	var result Result
	if err := json.Unmarshal(response.Body, &result); err != nil {
		c.log().Errorf("Error parsing response JSON: id=%s status=%d size=%d body=%s err=%v", response.ID, response.Status, response.Size, response.tldr(), err)

		return response, &DecodeError{Response: response, Err: err}
	}

	if result == nil {
		return response, &DecodeError{Response: response, Err: errResponseNotObject}
	}

	if model != nil {
		*model = result
	}

	return response, nil
}

func (c *Client) transportError(method, url string, err error) error {
	var netErr net.Error

	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Method: method, URL: url, Limit: c.timeout, Err: err}
	}

	return &TransportError{Method: method, URL: url, Err: err}
}

func (r *Response) String() string {
	return fmt.Sprintf("id=%s status=%d size=%d", r.ID, r.Status, r.Size)
}
