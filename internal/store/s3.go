package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/swiftblocks/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	s3Prefix   = "exports/"
	recordName = "record.json"
)

// S3Store keeps each export under exports/<id>/ in an S3-compatible bucket:
// the archive as <file name> and its record as record.json.
type S3Store struct {
	client     *minio.Client
	bucketName string
	region     string
	initMu     sync.Mutex
	ready      bool
}

// NewS3Store creates a client for cfg. The bucket is created on first use.
func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		bucket = config.DefaultBucket
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{client: client, bucketName: bucket, region: region}, nil
}

// ensureBucket creates the bucket on first use. Only success is remembered,
// so a failed attempt is retried by the next call.
func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.ready {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("ensure bucket: %w", err)
		}
	}
	s.ready = true
	return nil
}

func (s *S3Store) Save(ctx context.Context, rec *Record, archive []byte) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}

	meta, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := s.put(ctx, objectKey(rec.ID, rec.FileName), archive, "application/zip"); err != nil {
		return fmt.Errorf("failed to save archive %s: %w", rec.ID, err)
	}
	// The record goes last so a listed export always has its archive.
	if err := s.put(ctx, objectKey(rec.ID, recordName), meta, "application/json"); err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, id string) (*Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s.readRecord(ctx, objectKey(id, recordName))
}

func (s *S3Store) Archive(ctx context.Context, id string) ([]byte, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, objectKey(rec.ID, rec.FileName))
}

func (s *S3Store) List(ctx context.Context, limit int) ([]Record, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	records := []Record{}
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    s3Prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if path.Base(obj.Key) != recordName {
			continue
		}
		rec, err := s.readRecord(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit = normalizeLimit(limit); len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *S3Store) Close() error {
	return nil
}

func (s *S3Store) readRecord(ctx context.Context, key string) (*Record, error) {
	data, err := s.get(ctx, key)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", key, err)
	}
	return &rec, nil
}

func (s *S3Store) put(ctx context.Context, key string, content []byte, contentType string) error {
	if content == nil {
		content = []byte{}
	}
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *S3Store) get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapS3Error(err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapS3Error(err)
	}
	return data, nil
}

func mapS3Error(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return ErrNotFound
	}
	return err
}

func objectKey(id, name string) string {
	return s3Prefix + strings.TrimSpace(id) + "/" + strings.TrimLeft(strings.TrimSpace(name), "/")
}
