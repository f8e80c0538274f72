package s3io

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

var (
	ErrInvalidS3Path = errors.New("path is not a valid s3 location")
	ErrAborted       = errors.New("s3 upload aborted")
)

// uploader is an interface wrapper for s3manager.Uploader. This is only here
// for unit testing purposes.
type uploader interface {
	UploadWithContext(aws.Context, *s3manager.UploadInput, ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// NewClient returns an S3 client for cfg.  A nil cfg is filled in from the
// environment: AWS_REGION, and AWS_S3_ENDPOINT for S3-compatible stores,
// which are then addressed path-style.
func NewClient(cfg *aws.Config) s3iface.S3API {
	if cfg == nil {
		cfg = aws.NewConfig()
		if region := os.Getenv("AWS_REGION"); region != "" {
			cfg = cfg.WithRegion(region)
		} else {
			cfg = cfg.WithRegion("us-east-1")
		}
		if endpoint := os.Getenv("AWS_S3_ENDPOINT"); endpoint != "" {
			cfg = cfg.WithEndpoint(endpoint).WithS3ForcePathStyle(true)
		}
	}
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		Config:            *cfg,
		SharedConfigState: session.SharedConfigEnable,
	}))
	return s3.New(sess)
}

func IsS3Path(path string) bool {
	_, _, err := parsePath(path)
	return err == nil
}

func parsePath(path string) (bucket, key string, err error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", ErrInvalidS3Path
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// Writer uploads everything written to it as a single object.  The object
// appears only when Close succeeds.
type Writer struct {
	ctx      context.Context
	writer   *io.PipeWriter
	uploader uploader
	bucket   string
	key      string
	once     sync.Once
	done     chan struct{}
	err      error
}

func NewWriter(ctx context.Context, path string, client s3iface.S3API, options ...func(*s3manager.Uploader)) (*Writer, error) {
	bucket, key, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	return &Writer{
		ctx:      ctx,
		bucket:   bucket,
		key:      key,
		uploader: s3manager.NewUploaderWithClient(client, options...),
		done:     make(chan struct{}),
	}, nil
}

func (w *Writer) init() {
	pr, pw := io.Pipe()
	w.writer = pw
	go func() {
		_, err := w.uploader.UploadWithContext(w.ctx, &s3manager.UploadInput{
			Bucket: aws.String(w.bucket),
			Key:    aws.String(w.key),
			Body:   pr,
		})
		w.err = err
		close(w.done)
		_ = pr.CloseWithError(err) // can ignore, return value will always be nil
	}()
}

func (w *Writer) Write(b []byte) (int, error) {
	w.once.Do(w.init)
	return w.writer.Write(b)
}

func (w *Writer) Close() error {
	w.once.Do(w.init)
	err := w.writer.Close()
	<-w.done
	if err != nil {
		return err
	}
	return w.err
}

// Abort fails the upload so that no object is created.
func (w *Writer) Abort() {
	w.once.Do(w.init)
	w.writer.CloseWithError(ErrAborted)
	<-w.done
}

func Stat(ctx context.Context, path string, client s3iface.S3API) (*s3.HeadObjectOutput, error) {
	bucket, key, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	return client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
}

func Exists(ctx context.Context, path string, client s3iface.S3API) (bool, error) {
	_, err := Stat(ctx, path, client)
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
