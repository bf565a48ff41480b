// Package docarchive archives raw ingested contract text alongside its
// JSON analysis snapshot in MinIO, giving each analysis run a
// permanent, content-addressable record independent of whatever
// downstream stores (search index, graph store) later get rebuilt or
// reindexed. It is an ambient durability collaborator: internal/pipeline
// never imports it.
package docarchive

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/layeredcontracts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/layeredcontracts/pkg/errors"
)

// Config holds MinIO connection parameters.
type Config struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
	PresignExpiry  time.Duration
}

// minioAPI abstracts the subset of *minio.Client the archive uses, so
// tests can substitute a fake.
type minioAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// Archive wraps a MinIO client scoped to the raw-text and snapshot
// object layout: documents/<documentId>/source.txt and
// documents/<documentId>/snapshot.json.
type Archive struct {
	client        minioAPI
	bucket        string
	presignExpiry time.Duration
	logger        logging.Logger
}

// New connects to MinIO and ensures the archive bucket exists.
func New(cfg Config, logger logging.Logger) (*Archive, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New(errors.CodeInvalidParam, "docarchive: endpoint and bucket are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "docarchive: failed to create client")
	}

	expiry := cfg.PresignExpiry
	if expiry == 0 {
		expiry = time.Hour
	}

	a := &Archive{client: mc, bucket: cfg.Bucket, presignExpiry: expiry, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "docarchive: failed to check bucket")
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "docarchive: failed to create bucket")
	}
	return nil
}

func sourceKey(documentID string) string {
	return "documents/" + documentID + "/source.txt"
}

func snapshotKey(documentID string) string {
	return "documents/" + documentID + "/snapshot.json"
}

// PutSource archives the raw contract text as ingested.
func (a *Archive) PutSource(ctx context.Context, documentID string, text string) error {
	reader := bytes.NewReader([]byte(text))
	_, err := a.client.PutObject(ctx, a.bucket, sourceKey(documentID), reader, int64(len(text)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "docarchive: failed to archive source text")
	}
	return nil
}

// PutSnapshot archives the JSON-encoded pipeline.Snapshot output for a
// document's analysis run.
func (a *Archive) PutSnapshot(ctx context.Context, documentID string, snapshotJSON []byte) error {
	reader := bytes.NewReader(snapshotJSON)
	_, err := a.client.PutObject(ctx, a.bucket, snapshotKey(documentID), reader, int64(len(snapshotJSON)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "docarchive: failed to archive snapshot")
	}
	return nil
}

// GetSource retrieves the archived raw contract text for a document.
func (a *Archive) GetSource(ctx context.Context, documentID string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, sourceKey(documentID), minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "docarchive: failed to fetch source text")
	}
	defer obj.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageError, "docarchive: failed to read source text")
	}
	return buf.Bytes(), nil
}

// PresignedSnapshotURL returns a time-limited URL a reviewer's browser
// can fetch the archived snapshot JSON from directly, without routing
// through the analyzer service.
func (a *Archive) PresignedSnapshotURL(ctx context.Context, documentID string) (string, error) {
	u, err := a.client.PresignedGetObject(ctx, a.bucket, snapshotKey(documentID), a.presignExpiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeStorageError, "docarchive: failed to presign snapshot url")
	}
	return u.String(), nil
}
