package docarchive

import (
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinIO struct {
	objects map[string][]byte
}

func newFakeMinIO() *fakeMinIO {
	return &fakeMinIO{objects: map[string][]byte{}}
}

func (f *fakeMinIO) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return true, nil
}

func (f *fakeMinIO) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return nil
}

func (f *fakeMinIO) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[object] = data
	return minio.UploadInfo{Key: object, Size: size}, nil
}

func (f *fakeMinIO) GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error) {
	return nil, assert.AnError
}

func (f *fakeMinIO) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, reqParams url.Values) (*url.URL, error) {
	return url.Parse("https://archive.example/" + bucket + "/" + object)
}

func newTestArchive(f *fakeMinIO) *Archive {
	return &Archive{client: f, bucket: "lc-docs", presignExpiry: time.Hour}
}

func TestPutSourceStoresUnderDocumentKey(t *testing.T) {
	f := newFakeMinIO()
	a := newTestArchive(f)

	err := a.PutSource(context.Background(), "doc-1", "Tenant shall pay rent.")
	require.NoError(t, err)
	assert.Equal(t, []byte("Tenant shall pay rent."), f.objects["documents/doc-1/source.txt"])
}

func TestPutSnapshotStoresUnderDocumentKey(t *testing.T) {
	f := newFakeMinIO()
	a := newTestArchive(f)

	err := a.PutSnapshot(context.Background(), "doc-1", []byte(`[{"id":"ob1"}]`))
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"ob1"}]`), f.objects["documents/doc-1/snapshot.json"])
}

func TestPresignedSnapshotURLIncludesDocumentKey(t *testing.T) {
	f := newFakeMinIO()
	a := newTestArchive(f)

	u, err := a.PresignedSnapshotURL(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Contains(t, u, "documents/doc-1/snapshot.json")
}

func TestNewRejectsMissingEndpoint(t *testing.T) {
	_, err := New(Config{Bucket: "b"}, nil)
	assert.Error(t, err)
}

func TestNewRejectsMissingBucket(t *testing.T) {
	_, err := New(Config{Endpoint: "localhost:9000"}, nil)
	assert.Error(t, err)
}
