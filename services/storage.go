package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/config"
)

// FileStore persists uploaded files under a flat namespace of stored names.
type FileStore interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Locate returns a local path, or a URL when remote is true.
	Locate(name string) (location string, remote bool)
}

// NewFileStore uses S3 when a bucket is configured and the local uploads root otherwise.
func NewFileStore(ctx context.Context, conf *config.Config) (FileStore, error) {
	if conf.AWSBucket == "" {
		return &LocalStore{Root: conf.UploadsRoot}, nil
	}
	return NewS3Store(ctx, conf)
}

type LocalStore struct {
	Root string
}

func (l *LocalStore) Save(_ context.Context, name string, data []byte, _ string) (string, error) {
	if err := os.MkdirAll(l.Root, 0o755); err != nil {
		return "", errors.Wrap(err, "create uploads root")
	}
	dst := filepath.Join(l.Root, filepath.Base(name))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", errors.Wrap(err, "write upload")
	}
	return dst, nil
}

func (l *LocalStore) Locate(name string) (string, bool) {
	return filepath.Join(l.Root, filepath.Base(name)), false
}

type S3Store struct {
	Client *s3.Client
	Bucket string
	Region string
	Prefix string
}

func NewS3Store(ctx context.Context, conf *config.Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(conf.AWSRegion)}
	if conf.AWSKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AWSKeyID, conf.AWSSecret, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load SDK config")
	}
	return &S3Store{
		Client: s3.NewFromConfig(cfg),
		Bucket: conf.AWSBucket,
		Region: conf.AWSRegion,
		Prefix: "uploads",
	}, nil
}

func (s *S3Store) key(name string) string {
	return path.Join(s.Prefix, path.Base(name))
}

func (s *S3Store) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := s.key(name)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload file to S3")
	}
	return key, nil
}

func (s *S3Store) Locate(name string) (string, bool) {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, s.key(name)), true
}

// readAll caps reads at limit bytes.
func readAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errFileTooLarge
	}
	return data, nil
}
