package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

func withStubbedS3(t *testing.T, put func(in *s3.PutObjectInput) (*s3.PutObjectOutput, error)) {
	t.Helper()

	origPut := putObject
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return put(in)
	}
	t.Cleanup(func() { putObject = origPut })

	origNew := newS3ClientFromConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	t.Cleanup(func() { newS3ClientFromConfig = origNew })
}

func testCfg() S3Config {
	return S3Config{
		Region:        "us-east-1",
		BaseEndpoint:  "http://127.0.0.1:9000",
		Bucket:        "club-media",
		AccessKey:     "ak",
		SecretKey:     "sk",
		PublicBaseURL: "https://cdn.example.com/club-media/",
	}
}

func TestS3Uploader_Upload_ReturnsPublicURL(t *testing.T) {
	var gotKey, gotBucket, gotBody string
	withStubbedS3(t, func(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotKey = aws.ToString(in.Key)
		gotBucket = aws.ToString(in.Bucket)
		b, _ := io.ReadAll(in.Body)
		gotBody = string(b)
		return &s3.PutObjectOutput{}, nil
	})

	u := NewS3Uploader(testCfg())

	url, err := u.Upload(context.Background(), []byte("img-bytes"), "image/png")
	require.NoError(t, err)

	require.Equal(t, "club-media", gotBucket)
	require.Equal(t, "img-bytes", gotBody)
	require.True(t, strings.HasPrefix(gotKey, "avatars/"), "key %q", gotKey)
	require.True(t, strings.HasSuffix(gotKey, ".png"), "key %q", gotKey)
	require.Equal(t, "https://cdn.example.com/club-media/"+gotKey, url)
}

func TestS3Uploader_Upload_PutErrorIsWrapped(t *testing.T) {
	withStubbedS3(t, func(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("bucket gone")
	})

	u := NewS3Uploader(testCfg())

	_, err := u.Upload(context.Background(), []byte("x"), "image/jpeg")
	require.Error(t, err)
	require.Contains(t, err.Error(), "storage upload")
}

func TestStorageKey_UniquePerCall(t *testing.T) {
	a := storageKey("image/png")
	b := storageKey("image/png")
	require.NotEqual(t, a, b)
}
