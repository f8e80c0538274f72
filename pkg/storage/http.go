package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/brimdata/pqjson/zqe"
)

// HTTPEngine reads objects with GET.  It cannot write.
type HTTPEngine struct {
	client    *http.Client
	userAgent string
}

var _ Engine = (*HTTPEngine)(nil)

func NewHTTP() *HTTPEngine {
	return &HTTPEngine{client: http.DefaultClient}
}

// NewHTTPWithUserAgent is like NewHTTP but sends userAgent with each request.
func NewHTTPWithUserAgent(userAgent string) *HTTPEngine {
	return &HTTPEngine{client: http.DefaultClient, userAgent: userAgent}
}

func (h *HTTPEngine) do(ctx context.Context, method string, u *URI) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, zqe.ErrNotFound("%s", u)
		}
		return nil, errors.New(resp.Status)
	}
	return resp, nil
}

func (h *HTTPEngine) Get(ctx context.Context, u *URI) (Reader, error) {
	resp, err := h.do(ctx, http.MethodGet, u)
	if err != nil {
		return nil, err
	}
	return &httpReader{resp.Body, resp.ContentLength}, nil
}

type httpReader struct {
	io.ReadCloser
	size int64
}

func (*httpReader) ReadAt(_ []byte, _ int64) (int, error) { return 0, ErrNotSupported }

func (h *httpReader) Size() (int64, error) {
	if h.size < 0 {
		return 0, ErrNotSupported
	}
	return h.size, nil
}

func (*HTTPEngine) Put(context.Context, *URI) (io.WriteCloser, error) {
	return nil, ErrNotSupported
}

func (h *HTTPEngine) Size(ctx context.Context, u *URI) (int64, error) {
	resp, err := h.do(ctx, http.MethodHead, u)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	size, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	if err != nil {
		return 0, ErrNotSupported
	}
	return size, nil
}

func (h *HTTPEngine) Exists(ctx context.Context, u *URI) (bool, error) {
	resp, err := h.do(ctx, http.MethodHead, u)
	if err != nil {
		if zqe.IsKind(err, zqe.NotFound) {
			return false, nil
		}
		return false, err
	}
	resp.Body.Close()
	return true, nil
}
