package storage

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeMinio(t *testing.T) *Minio {
	t.Helper()

	backend := s3mem.New()
	srv := httptest.NewServer(gofakes3.New(backend).Server())
	t.Cleanup(srv.Close)
	require.NoError(t, backend.CreateBucket("files"))

	m, err := NewMinio(context.Background(), MinioConfig{
		Endpoint:        strings.TrimPrefix(srv.URL, "http://"),
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret",
		Bucket:          "files",
		Region:          "us-east-1",
	})
	require.NoError(t, err)
	return m
}

func put(t *testing.T, m *Minio, key string) {
	t.Helper()
	body := []byte("payload")
	_, err := m.client.PutObject(context.Background(), m.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{})
	require.NoError(t, err)
}

func exists(m *Minio, key string) bool {
	_, err := m.client.StatObject(context.Background(), m.bucket, key, minio.StatObjectOptions{})
	return err == nil
}

func TestMinio_RemoveObjects(t *testing.T) {
	m := newFakeMinio(t)
	put(t, m, "data/1")
	put(t, m, "data/2")
	put(t, m, "cover/1")

	require.NoError(t, m.RemoveObjects(context.Background(), []string{"data/1", "", "data/2"}))

	assert.False(t, exists(m, "data/1"))
	assert.False(t, exists(m, "data/2"))
	assert.True(t, exists(m, "cover/1"))
}

func TestNewMinio_MissingBucket(t *testing.T) {
	backend := s3mem.New()
	srv := httptest.NewServer(gofakes3.New(backend).Server())
	t.Cleanup(srv.Close)

	_, err := NewMinio(context.Background(), MinioConfig{
		Endpoint:        strings.TrimPrefix(srv.URL, "http://"),
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		Bucket:          "absent",
		Region:          "us-east-1",
	})
	assert.Error(t, err)
}

func TestNewMinio_RequiresEndpoint(t *testing.T) {
	_, err := NewMinio(context.Background(), MinioConfig{Bucket: "files"})
	assert.Error(t, err)
}
