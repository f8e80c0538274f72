package storage

import (
	"context"
	"fmt"
	"io"
)

// Router dispatches to an Engine by URI scheme.  Only enabled schemes are
// served.
type Router struct {
	engines map[Scheme]Engine
}

var _ Engine = (*Router)(nil)

func NewRouter() *Router {
	return &Router{engines: make(map[Scheme]Engine)}
}

func (r *Router) Enable(scheme Scheme) {
	switch scheme {
	case FileScheme:
		r.engines[scheme] = NewFileSystem()
	case StdioScheme:
		r.engines[scheme] = NewStdioEngine()
	case HTTPScheme, HTTPSScheme:
		r.engines[scheme] = NewHTTP()
	case S3Scheme:
		r.engines[scheme] = NewS3()
	}
}

// Set installs engine for scheme, replacing any engine enabled for it.
func (r *Router) Set(scheme Scheme, engine Engine) {
	r.engines[scheme] = engine
}

func (r *Router) lookup(u *URI) (Engine, error) {
	scheme, ok := getScheme(u)
	if !ok {
		return nil, fmt.Errorf("%s: unknown scheme %q", u, u.Scheme)
	}
	engine, ok := r.engines[scheme]
	if !ok {
		return nil, fmt.Errorf("%s: storage scheme %q not enabled", u, scheme)
	}
	return engine, nil
}

func (r *Router) Get(ctx context.Context, u *URI) (Reader, error) {
	engine, err := r.lookup(u)
	if err != nil {
		return nil, err
	}
	return engine.Get(ctx, u)
}

func (r *Router) Put(ctx context.Context, u *URI) (io.WriteCloser, error) {
	engine, err := r.lookup(u)
	if err != nil {
		return nil, err
	}
	return engine.Put(ctx, u)
}

func (r *Router) Exists(ctx context.Context, u *URI) (bool, error) {
	engine, err := r.lookup(u)
	if err != nil {
		return false, err
	}
	return engine.Exists(ctx, u)
}

func (r *Router) Size(ctx context.Context, u *URI) (int64, error) {
	engine, err := r.lookup(u)
	if err != nil {
		return 0, err
	}
	return engine.Size(ctx, u)
}
