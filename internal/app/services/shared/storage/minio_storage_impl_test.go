package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMinioClient(t *testing.T, endpoint string) *minio.Client {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("access-key", "secret-key", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return client
}

func TestMinioStorage_UploadObject(t *testing.T) {
	var receivedPath, receivedContentType, receivedLength string
	var receivedBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		receivedContentType = r.Header.Get("Content-Type")
		receivedLength = r.Header.Get("X-Amz-Decoded-Content-Length")
		receivedBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage := NewMinioStorage(newTestMinioClient(t, strings.TrimPrefix(server.URL, "http://")))

	objectName, err := storage.UploadObject(context.Background(), []byte("PK\x03\x04"), "archives", "study/abc.zip", "application/zip")

	require.NoError(t, err)
	assert.Equal(t, "study/abc.zip", objectName)
	assert.Equal(t, "/archives/study/abc.zip", receivedPath)
	assert.Equal(t, "application/zip", receivedContentType)
	// Plain HTTP uploads are aws-chunked, the payload sits between chunk signatures.
	assert.True(t, bytes.Contains(receivedBody, []byte("PK\x03\x04")))
	if receivedLength != "" {
		assert.Equal(t, "4", receivedLength)
	}
}

func TestMinioStorage_UploadObjectFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	storage := NewMinioStorage(newTestMinioClient(t, strings.TrimPrefix(server.URL, "http://")))

	_, err := storage.UploadObject(context.Background(), []byte("data"), "archives", "study/abc.zip", "application/zip")

	assert.Error(t, err)
}

func TestMinioStorage_GetObjectUrlWithExpiryTime(t *testing.T) {
	storage := NewMinioStorage(newTestMinioClient(t, "localhost:9000"))

	url, err := storage.GetObjectUrlWithExpiryTime(context.Background(), "archives", "study/abc.zip", time.Hour)

	require.NoError(t, err)
	assert.Contains(t, url, "/archives/study/abc.zip")
	assert.Contains(t, url, "X-Amz-Expires=3600")
}

const listBucketResult = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>archives</Name>
  <Prefix></Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents>
    <Key>studies/old.zip</Key>
    <LastModified>2024-03-01T08:00:00.000Z</LastModified>
    <ETag>&quot;d41d8cd98f00b204e9800998ecf8427e&quot;</ETag>
    <Size>4</Size>
    <StorageClass>STANDARD</StorageClass>
  </Contents>
  <Contents>
    <Key>studies/new.zip</Key>
    <LastModified>2024-03-10T08:00:00.000Z</LastModified>
    <ETag>&quot;d41d8cd98f00b204e9800998ecf8427e&quot;</ETag>
    <Size>4</Size>
    <StorageClass>STANDARD</StorageClass>
  </Contents>
</ListBucketResult>`

func TestMinioStorage_ListObjectsOlderThan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.True(t, strings.HasPrefix(r.URL.Path, "/archives"))
		assert.Equal(t, "2", r.URL.Query().Get("list-type"))
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(listBucketResult))
	}))
	defer server.Close()

	storage := NewMinioStorage(newTestMinioClient(t, strings.TrimPrefix(server.URL, "http://")))

	objectNames, err := storage.ListObjectsOlderThan(context.Background(), "archives", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, []string{"studies/old.zip"}, objectNames)
}

func TestMinioStorage_RemoveObject(t *testing.T) {
	var receivedMethod, receivedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		receivedPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	storage := NewMinioStorage(newTestMinioClient(t, strings.TrimPrefix(server.URL, "http://")))

	err := storage.RemoveObject(context.Background(), "archives", "studies/old.zip")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, receivedMethod)
	assert.Equal(t, "/archives/studies/old.zip", receivedPath)
}
