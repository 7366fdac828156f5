package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	a "pathfinder/guide-api/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrFileMissing is returned by Open when the stored bytes are gone.
var ErrFileMissing = errors.New("stored file is missing")

// FileStore keeps the raw bytes of uploads. Save returns the location the
// bytes can later be opened from, which is what gets stored in the
// upload row.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Remove(ctx context.Context, location string) error
}

// LocalStore writes files to a directory on disk.
type LocalStore struct {
	Dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir}
}

func (s *LocalStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory, %w", err)
	}

	p := filepath.Join(s.Dir, name)

	// O_EXCL so a name collision fails instead of overwriting someone's file
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file, %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return "", fmt.Errorf("failed to write file, %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(p)
		return "", fmt.Errorf("failed to write file, %w", err)
	}

	return p, nil
}

func (s *LocalStore) Open(_ context.Context, location string) (io.ReadCloser, error) {
	f, err := os.Open(location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileMissing
		}
		return nil, err
	}

	return f, nil
}

func (s *LocalStore) Remove(_ context.Context, location string) error {
	err := os.Remove(location)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

const minMultipartSize = 12 << 20

// S3Store keeps files as objects in an S3 compatible bucket. The location
// is the object key.
type S3Store struct {
	S3 *a.S3Client
}

func NewS3Store(c *a.S3Client) *S3Store {
	return &S3Store{S3: c}
}

func (s *S3Store) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := "resumes/" + name

	input := &s3.PutObjectInput{
		Bucket:        s.S3.Bucket,
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}

	var err error
	if size > minMultipartSize {
		uploader := manager.NewUploader(s.S3.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})
		_, err = uploader.Upload(ctx, input)
	} else {
		_, err = s.S3.C.PutObject(ctx, input)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upload file to s3, %w", err)
	}

	return key, nil
}

func (s *S3Store) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	out, err := s.S3.C.GetObject(ctx, &s3.GetObjectInput{
		Bucket: s.S3.Bucket,
		Key:    aws.String(location),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrFileMissing
		}
		return nil, fmt.Errorf("failed to fetch file from s3, %w", err)
	}

	return out.Body, nil
}

func (s *S3Store) Remove(ctx context.Context, location string) error {
	_, err := s.S3.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.S3.Bucket,
		Key:    aws.String(location),
	})

	return err
}
