package storage

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/brimdata/pqjson/pkg/s3io"
	"github.com/brimdata/pqjson/zqe"
)

type S3Engine struct {
	client s3iface.S3API
}

var _ Engine = (*S3Engine)(nil)
var _ Sizer = (*s3io.Reader)(nil)

// NewS3 returns an engine whose client is created on first use, so that
// enabling the scheme does not require AWS configuration.
func NewS3() *S3Engine {
	return &S3Engine{}
}

func NewS3WithClient(client s3iface.S3API) *S3Engine {
	return &S3Engine{client: client}
}

func (s *S3Engine) getClient() s3iface.S3API {
	if s.client == nil {
		s.client = s3io.NewClient(nil)
	}
	return s.client
}

func (s *S3Engine) Get(ctx context.Context, u *URI) (Reader, error) {
	r, err := s3io.NewReader(ctx, u.String(), s.getClient())
	if err != nil {
		return nil, wrapErr(u, err)
	}
	return r, nil
}

func (s *S3Engine) Put(ctx context.Context, u *URI) (io.WriteCloser, error) {
	w, err := s3io.NewWriter(ctx, u.String(), s.getClient())
	if err != nil {
		return nil, wrapErr(u, err)
	}
	return w, nil
}

func (s *S3Engine) Size(ctx context.Context, u *URI) (int64, error) {
	info, err := s3io.Stat(ctx, u.String(), s.getClient())
	if err != nil {
		return 0, wrapErr(u, err)
	}
	return aws.Int64Value(info.ContentLength), nil
}

func (s *S3Engine) Exists(ctx context.Context, u *URI) (bool, error) {
	ok, err := s3io.Exists(ctx, u.String(), s.getClient())
	return ok, wrapErr(u, err)
}

func wrapErr(u *URI, err error) error {
	var reqerr awserr.RequestFailure
	if errors.As(err, &reqerr) && reqerr.StatusCode() == http.StatusNotFound {
		return zqe.ErrNotFound("%s", u)
	}
	return err
}
