package artifacts

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLocalSink(t *testing.T) {
	ctx := context.Background()
	out := t.TempDir()
	sink, err := NewLocalSink(out)
	require.NoError(t, err)

	t.Run("deliver and open", func(t *testing.T) {
		src := writeFile(t, "%PDF-1.3 body")

		loc, err := sink.Deliver(ctx, src, "abc/report.pdf")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(out, "abc", "report.pdf"), loc)
		assert.NoFileExists(t, loc+".part")

		rc, err := sink.Open(ctx, loc)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.3 body", string(data))
	})

	t.Run("missing source leaves nothing", func(t *testing.T) {
		_, err := sink.Deliver(ctx, filepath.Join(t.TempDir(), "nope.pdf"), "missing/report.pdf")
		require.Error(t, err)
		assert.NoFileExists(t, filepath.Join(out, "missing", "report.pdf"))
		assert.NoFileExists(t, filepath.Join(out, "missing", "report.pdf.part"))
	})

	t.Run("rejects escaping names", func(t *testing.T) {
		_, err := sink.Deliver(ctx, writeFile(t, "x"), "../escape.pdf")
		assert.Error(t, err)

		_, err = sink.Open(ctx, "/etc/passwd")
		assert.Error(t, err)
	})

	t.Run("empty dir", func(t *testing.T) {
		_, err := NewLocalSink("")
		assert.Error(t, err)
	})
}

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockObjectAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func TestS3Sink(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads under prefix", func(t *testing.T) {
		client := &mockObjectAPI{}
		client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return *in.Bucket == "reports" && *in.Key == "medcov/abc/report.pdf" && *in.ContentType == "application/pdf"
		})).Return(&s3.PutObjectOutput{}, nil)

		sink, err := NewS3SinkWithClient(client, "reports", "/medcov/")
		require.NoError(t, err)

		loc, err := sink.Deliver(ctx, writeFile(t, "pdf"), "abc/report.pdf")
		require.NoError(t, err)
		assert.Equal(t, "s3://reports/medcov/abc/report.pdf", loc)
		client.AssertExpectations(t)
	})

	t.Run("upload failure", func(t *testing.T) {
		client := &mockObjectAPI{}
		client.On("PutObject", ctx, mock.Anything).Return(nil, assert.AnError)

		sink, err := NewS3SinkWithClient(client, "reports", "")
		require.NoError(t, err)

		_, err = sink.Deliver(ctx, writeFile(t, "pdf"), "abc/report.pdf")
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("open", func(t *testing.T) {
		client := &mockObjectAPI{}
		client.On("GetObject", ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return *in.Bucket == "reports" && *in.Key == "abc/report.pdf"
		})).Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewBufferString("pdf"))}, nil)

		sink, err := NewS3SinkWithClient(client, "reports", "")
		require.NoError(t, err)

		rc, err := sink.Open(ctx, "s3://reports/abc/report.pdf")
		require.NoError(t, err)
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "pdf", string(data))

		_, err = sink.Open(ctx, "s3://other/abc/report.pdf")
		assert.Error(t, err)
	})

	t.Run("bucket required", func(t *testing.T) {
		_, err := NewS3SinkWithClient(&mockObjectAPI{}, "", "")
		assert.Error(t, err)
	})
}
