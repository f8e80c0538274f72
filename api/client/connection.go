package client

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

	"github.com/brimdata/pqjson/api"
)

const (
	// DefaultPort is the port pq2json serve listens on by default.
	DefaultPort      = 9868
	DefaultUserAgent = "pqjson-client-golang"
)

type Connection struct {
	client        *http.Client
	defaultHeader http.Header
	hostURL       string
}

// NewConnection creates a new connection with a base URL set up to talk to
// http://localhost:DefaultPort.
func NewConnection() *Connection {
	u := "http://localhost:" + strconv.Itoa(DefaultPort)
	return NewConnectionTo(u)
}

// NewConnectionTo creates a new connection with a base URL derived from the
// hostURL argument.
func NewConnectionTo(hostURL string) *Connection {
	h := http.Header{"User-Agent": []string{DefaultUserAgent}}
	return &Connection{
		client:        &http.Client{},
		defaultHeader: h,
		hostURL:       hostURL,
	}
}

// ClientHostURL allows us to print the host in log messages and internal error messages
func (c *Connection) ClientHostURL() string {
	return c.hostURL
}

func (c *Connection) SetUserAgent(useragent string) {
	c.defaultHeader.Set("User-Agent", useragent)
}

type Response struct {
	*http.Response
	Duration time.Duration
}

func (c *Connection) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.hostURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	for key, val := range c.defaultHeader {
		req.Header[key] = val
	}
	return req, nil
}

func (c *Connection) Do(req *http.Request) (*Response, error) {
	start := time.Now()
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, parseError(res)
	}
	return &Response{
		Response: res,
		Duration: time.Since(start),
	}, nil
}

func (c *Connection) doAndUnmarshal(req *http.Request, i interface{}) error {
	res, err := c.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return json.NewDecoder(res.Body).Decode(i)
}

// parseError parses an error from an http.Response with an error status
// code.
func parseError(r *http.Response) error {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	resErr := &ErrorResponse{Response: r}
	if r.Header.Get("Content-Type") == api.MediaTypeJSON {
		var apierr api.Error
		if err := json.Unmarshal(body, &apierr); err != nil {
			return err
		}
		resErr.Err = &apierr
	} else {
		resErr.Err = errors.New(string(body))
	}
	return resErr
}

// Ping checks to see if the server and measure the time it takes to
// get back the response.
func (c *Connection) Ping(ctx context.Context) (time.Duration, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/status", nil, nil)
	if err != nil {
		return 0, err
	}
	res, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	res.Body.Close()
	return res.Duration, nil
}

// Version retrieves the version string from the service.
func (c *Connection) Version(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/version", nil, nil)
	if err != nil {
		return "", err
	}
	var res api.VersionResponse
	if err := c.doAndUnmarshal(req, &res); err != nil {
		return "", err
	}
	return res.Version, nil
}

func (c *Connection) Status(ctx context.Context) (api.StatusResponse, error) {
	var res api.StatusResponse
	req, err := c.newRequest(ctx, http.MethodGet, "/status", nil, nil)
	if err != nil {
		return res, err
	}
	req.Header.Set("Accept", api.MediaTypeJSON)
	err = c.doAndUnmarshal(req, &res)
	return res, err
}

func convertQuery(opts api.ConvertOpts) url.Values {
	q := url.Values{}
	if opts.Decoder != "" {
		q.Set("decoder", opts.Decoder)
	}
	if opts.NDJSON {
		q.Set("ndjson", "true")
	}
	if opts.NonFinite != "" {
		q.Set("nonfinite", opts.NonFinite)
	}
	if opts.Strict {
		q.Set("strict", "true")
	}
	return q
}

// Convert posts the Parquet payload in r and returns the response, whose
// body is the JSON output.  The caller must close the body.
func (c *Connection) Convert(ctx context.Context, r io.Reader, opts api.ConvertOpts) (*Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/convert", convertQuery(opts), r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", api.MediaTypeParquet)
	return c.Do(req)
}

func (c *Connection) Schema(ctx context.Context, r io.Reader, decoder string) (api.SchemaResponse, error) {
	var res api.SchemaResponse
	req, err := c.newRequest(ctx, http.MethodPost, "/schema", convertQuery(api.ConvertOpts{Decoder: decoder}), r)
	if err != nil {
		return res, err
	}
	req.Header.Set("Content-Type", api.MediaTypeParquet)
	err = c.doAndUnmarshal(req, &res)
	return res, err
}

type ErrorResponse struct {
	*http.Response
	Err error
}

func (e *ErrorResponse) Unwrap() error {
	return e.Err
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("status code %d: %v", e.StatusCode, e.Err)
}

// IsStatus reports whether err is an error response with status code.
func IsStatus(err error, code int) bool {
	var errRes *ErrorResponse
	return errors.As(err, &errRes) && errRes.StatusCode == code
}
