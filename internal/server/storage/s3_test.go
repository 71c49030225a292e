package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	sc "github.com/Ayash13/Antivity/internal/server/config"
)

func testConfig() *sc.Config {
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	cfg.S3PublicBaseURL = "https://cdn.example.com/antivity/"
	return cfg
}

func TestPut_Success(t *testing.T) {
	var gotKey, gotBucket, gotType string
	var gotBody []byte

	orig := putObject
	putObject = func(ctx context.Context, client *s3.Client, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotKey = *in.Key
		gotBucket = *in.Bucket
		gotType = *in.ContentType
		gotBody, _ = io.ReadAll(in.Body)
		return &s3.PutObjectOutput{}, nil
	}
	defer func() { putObject = orig }()

	store := NewS3Store(testConfig())
	url, err := store.Put(context.Background(), "path/u_1_0.png", []byte("img"), "image/png")
	require.NoError(t, err)

	require.Equal(t, "https://cdn.example.com/antivity/path/u_1_0.png", url)
	require.Equal(t, "path/u_1_0.png", gotKey)
	require.Equal(t, "antivity", gotBucket)
	require.Equal(t, "image/png", gotType)
	require.Equal(t, []byte("img"), gotBody)
}

func TestPut_UploadError(t *testing.T) {
	orig := putObject
	putObject = func(ctx context.Context, client *s3.Client, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("bucket missing")
	}
	defer func() { putObject = orig }()

	store := NewS3Store(testConfig())
	_, err := store.Put(context.Background(), "k", []byte("img"), "image/png")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bucket missing")
}

func TestPublicURL_NoDoubleSlash(t *testing.T) {
	store := NewS3Store(testConfig())
	require.Equal(t, "https://cdn.example.com/antivity/a/b.png", store.PublicURL("a/b.png"))
}
