// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/place-resolver/pkg/types"
)

type mockS3 struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.bucket = aws.ToString(in.Bucket)
	m.key = aws.ToString(in.Key)
	m.contentType = aws.ToString(in.ContentType)
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.body = data
	return &s3.PutObjectOutput{}, nil
}

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Address,City,Zip,Place ID,Phone\n"), 0o644))
	return path
}

func TestUpload(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.PublishConfig
		wantKey string
		wantURI string
	}{
		{"key from file name", types.PublishConfig{Bucket: "cheese"}, "places.csv", "s3://cheese/places.csv"},
		{"explicit key", types.PublishConfig{Bucket: "cheese", Key: "exports/maine.csv"}, "exports/maine.csv", "s3://cheese/exports/maine.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t)
			m := &mockS3{}
			p := &Publisher{Client: m, Config: tt.cfg}

			uri, err := p.Upload(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantURI, uri)
			assert.Equal(t, "cheese", m.bucket)
			assert.Equal(t, tt.wantKey, m.key)
			assert.Equal(t, "text/csv", m.contentType)
			assert.Equal(t, "Name,Address,City,Zip,Place ID,Phone\n", string(m.body))
		})
	}
}

func TestUploadErrors(t *testing.T) {
	path := writeCSV(t)

	_, err := (&Publisher{Client: &mockS3{}}).Upload(context.Background(), path)
	assert.ErrorContains(t, err, "no publish bucket")

	_, err = (&Publisher{Client: &mockS3{}, Config: types.PublishConfig{Bucket: "b"}}).
		Upload(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	denied := errors.New("access denied")
	_, err = (&Publisher{Client: &mockS3{err: denied}, Config: types.PublishConfig{Bucket: "b"}}).
		Upload(context.Background(), path)
	assert.ErrorIs(t, err, denied)
	assert.ErrorContains(t, err, "s3://b/places.csv")
}
