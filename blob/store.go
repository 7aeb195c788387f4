// Package blob stores grievance documents in an S3-compatible bucket
// (Cloudflare R2 in production) and hands back public URLs for the
// uploaded files.
package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// StoreConfig configures an S3-compatible document store.
type StoreConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string

	// PublicURL is the CDN base used to build download links,
	// e.g. https://docs.example.org.
	PublicURL string
}

// putObjectAPI is the slice of the S3 client the store uses. Tests
// substitute a fake.
type putObjectAPI interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store uploads documents to a bucket.
type Store struct {
	client    putObjectAPI
	bucket    string
	publicURL string
}

// UploadedFile describes one stored document.
type UploadedFile struct {
	OriginalName string    `json:"fileName"`
	StoredName   string    `json:"storedName"`
	URL          string    `json:"fileUrl"`
	Size         int64     `json:"fileSize"`
	ContentType  string    `json:"contentType"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// File is a pending upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        io.Reader
}

// NewStore creates a document store. R2 uses the "auto" region and a
// custom endpoint.
func NewStore(ctx context.Context, cfg StoreConfig) (*Store, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("blob: bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "auto"
	}

	loadOptions := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOptions = append(loadOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("blob: load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = true
	})

	return &Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Upload stores one file under a collision-resistant generated name and
// returns its descriptor.
func (s *Store) Upload(ctx context.Context, f File) (*UploadedFile, error) {
	key := objectName(f.Name)

	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   f.Data,
	}
	if f.ContentType != "" {
		input.ContentType = aws.String(f.ContentType)
	} else {
		input.ContentType = aws.String("application/octet-stream")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("blob: upload %s: %w", f.Name, err)
	}

	return &UploadedFile{
		OriginalName: f.Name,
		StoredName:   key,
		URL:          s.publicURL + "/" + key,
		Size:         f.Size,
		ContentType:  aws.ToString(input.ContentType),
		UploadedAt:   time.Now().UTC(),
	}, nil
}

// UploadAll stores files one at a time, in order. The first failure
// aborts the batch; nothing uploaded so far is reported back, so a
// partial batch never binds as a tool result.
func (s *Store) UploadAll(ctx context.Context, files []File) ([]UploadedFile, error) {
	uploaded := make([]UploadedFile, 0, len(files))
	for _, f := range files {
		uf, err := s.Upload(ctx, f)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, *uf)
	}
	return uploaded, nil
}

// objectName builds a unique object key from a timestamp, a random
// suffix, and the original file's extension.
func objectName(original string) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(filepath.Base(original), ext)
	base = strings.Join(strings.Fields(base), "-")
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%d-%s-%s%s", time.Now().UnixMilli(), suffix, base, ext)
}
