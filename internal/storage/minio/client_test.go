package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	putErr         error
	putKey         string
	putBody        []byte
	putContentType string

	statErr error
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, bucket string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = bucket
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, r io.Reader, _ int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return minioLib.UploadInfo{}, err
	}
	f.putKey, f.putBody, f.putContentType = key, body, opts.ContentType
	return minioLib.UploadInfo{Key: key, Size: int64(len(body))}, nil
}
func (f *fakeMinio) StatObject(_ context.Context, _ string, key string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return minioLib.ObjectInfo{Key: key}, f.statErr
}

func TestNewClientWithAPI_BucketExists(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(context.Background(), api, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", c.bucket)
	assert.Empty(t, api.madeBucket)
}

func TestNewClientWithAPI_CreateBucket(t *testing.T) {
	api := &fakeMinio{bucketExists: false}
	c, err := NewClientWithAPI(context.Background(), api, "journals")
	require.NoError(t, err)
	assert.Equal(t, "journals", c.bucket)
	assert.Equal(t, "journals", api.madeBucket)
}

func TestNewClientWithAPI_Errors(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeMinio
	}{
		{name: "bucket check fails", api: &fakeMinio{bucketExistsErr: errors.New("boom")}},
		{name: "bucket creation fails", api: &fakeMinio{makeBucketErr: errors.New("fail")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClientWithAPI(context.Background(), tt.api, "bucket")
			assert.Nil(t, c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to ensure bucket exists")
		})
	}
}

func TestClient_Upload(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	c, err := NewClientWithAPI(context.Background(), api, "bucket")
	require.NoError(t, err)

	body := []byte(`{"user_id":"u1"}`)
	err = c.Upload(context.Background(), "sagas/u1.json", bytes.NewReader(body), int64(len(body)), "application/json")
	require.NoError(t, err)
	assert.Equal(t, "sagas/u1.json", api.putKey)
	assert.Equal(t, body, api.putBody)
	assert.Equal(t, "application/json", api.putContentType)
}

func TestClient_Upload_Error(t *testing.T) {
	api := &fakeMinio{bucketExists: true, putErr: errors.New("denied")}
	c, err := NewClientWithAPI(context.Background(), api, "bucket")
	require.NoError(t, err)

	err = c.Upload(context.Background(), "k", bytes.NewReader(nil), 0, "application/json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload object")
}

func TestClient_Exists(t *testing.T) {
	tests := []struct {
		name    string
		statErr error
		want    bool
		wantErr bool
	}{
		{name: "object present", want: true},
		{
			name:    "object missing",
			statErr: minioLib.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound},
			want:    false,
		},
		{name: "stat fails", statErr: errors.New("network"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeMinio{bucketExists: true, statErr: tt.statErr}
			c, err := NewClientWithAPI(context.Background(), api, "bucket")
			require.NoError(t, err)

			got, err := c.Exists(context.Background(), "k")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
