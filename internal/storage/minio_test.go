package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	apperrors "eventro/internal/errors"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMinio struct {
	objects map[string]string
	types   map[string]string
	err     error
}

func newFakeMinio() *fakeMinio {
	return &fakeMinio{objects: map[string]string{}, types: map[string]string{}}
}

func (f *fakeMinio) PutObject(ctx context.Context, bucket string, name string, reader io.Reader, size int64, options minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	data, _ := io.ReadAll(reader)
	f.objects[bucket+"/"+name] = string(data)
	f.types[bucket+"/"+name] = options.ContentType
	return minio.UploadInfo{Bucket: bucket, Key: name, Size: size}, nil
}

func (f *fakeMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	delete(f.objects, bucketName+"/"+objectName)
	return f.err
}

func TestObjectStore_Upload(t *testing.T) {
	client := newFakeMinio()
	store := newObjectStore(client, "eventro", "https://cdn.example.com/")

	url, err := store.Upload(context.Background(), "avatars/u1/a.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/eventro/avatars/u1/a.png", url)
	assert.Equal(t, "png", client.objects["eventro/avatars/u1/a.png"])
	assert.Equal(t, "image/png", client.types["eventro/avatars/u1/a.png"])

	require.NoError(t, store.Delete(context.Background(), "avatars/u1/a.png"))
	assert.Empty(t, client.objects)
}

func TestObjectStore_Errors(t *testing.T) {
	client := newFakeMinio()
	client.err = errors.New("access denied")
	store := newObjectStore(client, "eventro", "http://localhost:9000")

	_, err := store.Upload(context.Background(), "k", strings.NewReader(""), 0, "")
	assert.Error(t, err)

	var disabled *ObjectStore
	_, err = disabled.Upload(context.Background(), "k", strings.NewReader(""), 0, "")
	assert.ErrorIs(t, err, apperrors.ErrStorageDisabled)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("receipts", "42", "Scan.JPG")
	assert.True(t, strings.HasPrefix(key, "receipts/42/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, ObjectKey("receipts", "42", "Scan.JPG"))
}
