package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/brimdata/pqjson/api"
	"github.com/brimdata/pqjson/zqe"
	"go.uber.org/zap"
)

type Request struct {
	*http.Request
	Logger *zap.Logger
}

func newRequest(w http.ResponseWriter, r *http.Request, c *Core) (*ResponseWriter, *Request) {
	req := &Request{Request: r}
	req.Logger = c.logger.With(zap.String("request_id", req.ID()))
	res := &ResponseWriter{
		ResponseWriter: w,
		Logger:         req.Logger,
		request:        req,
	}
	return res, req
}

func (r *Request) ID() string {
	return api.RequestIDFromContext(r.Context())
}

func (r *Request) BoolFromQuery(w *ResponseWriter, param string) (bool, bool) {
	s := r.URL.Query().Get(param)
	if s == "" {
		return false, true
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		w.Error(zqe.ErrInvalid("invalid query param %q: %w", param, err))
		return false, false
	}
	return b, true
}

type ResponseWriter struct {
	http.ResponseWriter
	Logger  *zap.Logger
	request *Request
	written int32
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	atomic.StoreInt32(&w.written, 1)
	return w.ResponseWriter.Write(b)
}

// Respond writes body as JSON with the given status.
func (w *ResponseWriter) Respond(status int, body interface{}) bool {
	if !atomic.CompareAndSwapInt32(&w.written, 0, 1) {
		return false
	}
	w.Header().Set("Content-Type", api.MediaTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w.ResponseWriter).Encode(body); err != nil {
		w.Logger.Warn("Error writing response", zap.Error(err))
		return false
	}
	return true
}

func (w *ResponseWriter) Error(err error) {
	if errors.Is(err, context.Canceled) && w.request.Context().Err() != nil {
		w.Logger.Info("Request context canceled")
		return
	}
	status, res := errorResponse(err)
	if status >= 500 {
		w.Logger.Warn("Error", zap.Int("status", status), zap.Error(err))
	}
	w.Respond(status, res)
}

func errorStatus(kind zqe.Kind) int {
	switch kind {
	case zqe.Invalid:
		return http.StatusBadRequest
	case zqe.NotFound:
		return http.StatusNotFound
	case zqe.Exists:
		return http.StatusConflict
	case zqe.TooLarge:
		return http.StatusRequestEntityTooLarge
	case zqe.Decode:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func errorResponse(e error) (int, *api.Error) {
	var mt *api.ErrUnsupportedMimeType
	if errors.As(e, &mt) {
		return http.StatusUnsupportedMediaType, &api.Error{Type: "Error", Kind: "invalid", Message: e.Error()}
	}
	kind := zqe.KindOf(e)
	ae := &api.Error{
		Type:    "Error",
		Kind:    kind.Name(),
		Message: e.Error(),
	}
	var ze *zqe.Error
	if errors.As(e, &ze) {
		ae.Message = ze.Message()
	}
	return errorStatus(kind), ae
}
