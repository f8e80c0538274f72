// Package httpd runs an http.Handler on a listener until a context is
// canceled, then shuts it down gracefully.
package httpd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const ShutdownTimeout = 5 * time.Second

type Server struct {
	addr   string
	logger *zap.Logger
	srv    *http.Server

	ln      net.Listener
	wg      sync.WaitGroup
	errOnce sync.Once
	err     error
}

func New(addr string, h http.Handler) *Server {
	return &Server{
		addr:   addr,
		logger: zap.NewNop(),
		srv: &http.Server{
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) SetLogger(logger *zap.Logger) {
	s.logger = logger
	s.srv.ErrorLog, _ = zap.NewStdLogAt(logger, zap.WarnLevel)
}

// Addr returns the address the server is listening on, which differs from
// the one given to New when that had port 0.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Start listens and serves in the background.  The server shuts down when
// ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Info("Listening", zap.String("addr", s.Addr()))
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			s.setErr(err)
		}
	}()
	go func() {
		defer s.wg.Done()
		<-ctx.Done()
		s.logger.Info("Shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(sctx); err != nil {
			s.logger.Warn("Shutdown error", zap.Error(err))
			s.srv.Close()
		}
	}()
	return nil
}

func (s *Server) setErr(err error) {
	s.errOnce.Do(func() { s.err = err })
}

// Wait blocks until the server has shut down and returns any error from
// serving.
func (s *Server) Wait() error {
	s.wg.Wait()
	return s.err
}
