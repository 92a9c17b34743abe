package minio

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Source serves labeled training examples from an object-store bucket:
// top-level prefixes are categories, the objects under a prefix are that
// category's example clips. Hidden entries are skipped like in the
// filesystem source.
type Source struct {
	client  *miniogo.Client
	bucket  string
	tempDir string
}

type SourceConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	TempDir   string
}

func NewSource(cfg SourceConfig) (*Source, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Source{
		client:  client,
		bucket:  cfg.Bucket,
		tempDir: cfg.TempDir,
	}, nil
}

// EnsureBucket verifies the training bucket exists, creating it when absent.
func (s *Source) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

func (s *Source) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	for object := range s.client.ListObjects(ctx, s.bucket, miniogo.ListObjectsOptions{}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list categories: %w", object.Err)
		}
		if !strings.HasSuffix(object.Key, "/") {
			continue
		}
		name := strings.TrimSuffix(object.Key, "/")
		if name == "" || strings.HasPrefix(name, ".") {
			continue
		}
		categories = append(categories, name)
	}
	return categories, nil
}

func (s *Source) Examples(ctx context.Context, category string) ([]string, error) {
	var examples []string
	opts := miniogo.ListObjectsOptions{Prefix: category + "/"}
	for object := range s.client.ListObjects(ctx, s.bucket, opts) {
		if object.Err != nil {
			return nil, fmt.Errorf("list examples for %s: %w", category, object.Err)
		}
		if strings.HasSuffix(object.Key, "/") {
			continue
		}
		name := path.Base(object.Key)
		if strings.HasPrefix(name, ".") {
			continue
		}
		examples = append(examples, name)
	}
	return examples, nil
}

// Fetch downloads an example clip to scoped temporary storage; the returned
// cleanup removes it.
func (s *Source) Fetch(ctx context.Context, category, example string) (string, func(), error) {
	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.tempDir, "example-*"+path.Ext(example))
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	objectKey := category + "/" + example
	if err := s.client.FGetObject(ctx, s.bucket, objectKey, tmpPath, miniogo.GetObjectOptions{}); err != nil {
		os.Remove(tmpPath)
		return "", nil, fmt.Errorf("download example %s: %w", objectKey, err)
	}

	return tmpPath, func() { os.Remove(tmpPath) }, nil
}
