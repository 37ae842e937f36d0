package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"Scrubline/config"
	"Scrubline/core/catalog"
	"Scrubline/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const timelinePrefix = "timelines"

// MinioSource serves timelines stored as timelines/<trackID>.json objects.
type MinioSource struct {
	client *minio.Client
	bucket string
}

// NewMinioClient connects to MinIO and makes sure the bucket exists.
func NewMinioClient(cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("created bucket", logger.String("bucket", cfg.MinioBucket))
	}
	return client, nil
}

// NewMinioSource reads timelines from bucket.
func NewMinioSource(client *minio.Client, bucket string) *MinioSource {
	return &MinioSource{client: client, bucket: bucket}
}

// ObjectName returns the object key holding a track's timeline.
func ObjectName(trackID string) string {
	return path.Join(timelinePrefix, path.Base(path.Clean("/"+trackID))+".json")
}

func (s *MinioSource) Timeline(ctx context.Context, trackID string) (*catalog.Timeline, error) {
	object, err := s.client.GetObject(ctx, s.bucket, ObjectName(trackID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get timeline object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, catalog.NotFound(trackID)
		}
		return nil, fmt.Errorf("read timeline object: %w", err)
	}

	var t catalog.Timeline
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode timeline object: %w", err)
	}
	t.TrackID = trackID
	t.Normalize()
	return &t, nil
}

// SaveTimeline uploads the timeline object.
func (s *MinioSource) SaveTimeline(ctx context.Context, t *catalog.Timeline) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.Normalize()
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, ObjectName(t.TrackID), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put timeline object: %w", err)
	}
	return nil
}

// List returns the track ids that have a timeline object.
func (s *MinioSource) List(ctx context.Context) ([]string, error) {
	var ids []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    timelinePrefix + "/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list timelines: %w", obj.Err)
		}
		name := path.Base(obj.Key)
		if path.Ext(name) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
