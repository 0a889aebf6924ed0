package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/jonathan/autoapply/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockS3 embeds the interface so only the calls under test need bodies.
type mockS3 struct {
	s3iface.S3API
	PutObjectWithContextFunc    func(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
	DeleteObjectWithContextFunc func(ctx aws.Context, in *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
}

func (m *mockS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	return m.PutObjectWithContextFunc(ctx, in, opts...)
}

func (m *mockS3) DeleteObjectWithContext(ctx aws.Context, in *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error) {
	return m.DeleteObjectWithContextFunc(ctx, in, opts...)
}

func TestS3Store_Put(t *testing.T) {
	var gotKey, gotType string
	var gotBody []byte
	client := &mockS3{
		PutObjectWithContextFunc: func(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
			gotKey = aws.StringValue(in.Key)
			gotType = aws.StringValue(in.ContentType)
			gotBody, _ = io.ReadAll(in.Body)
			return &s3.PutObjectOutput{}, nil
		},
	}

	store := NewS3StoreWithClient(client, "artifacts", "ap-south-1")
	url, err := store.Put(context.Background(), "/optimized-resumes/abc/resume.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "https://artifacts.s3.ap-south-1.amazonaws.com/optimized-resumes/abc/resume.pdf", url)
	assert.Equal(t, "optimized-resumes/abc/resume.pdf", gotKey)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, []byte("%PDF"), gotBody)
}

func TestS3Store_PutError(t *testing.T) {
	client := &mockS3{
		PutObjectWithContextFunc: func(_ aws.Context, _ *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
			return nil, errors.New("AccessDenied")
		},
	}
	_, err := NewS3StoreWithClient(client, "b", "r").Put(context.Background(), "k", "text/plain", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestS3Store_Delete(t *testing.T) {
	var gotBucket string
	client := &mockS3{
		DeleteObjectWithContextFunc: func(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
			gotBucket = aws.StringValue(in.Bucket)
			return &s3.DeleteObjectOutput{}, nil
		},
	}
	require.NoError(t, NewS3StoreWithClient(client, "artifacts", "r").Delete(context.Background(), "k"))
	assert.Equal(t, "artifacts", gotBucket)
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(config.S3Config{Region: "ap-south-1"})
	require.Error(t, err)
}
