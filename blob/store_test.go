package blob

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	keys    []string
	bodies  []string
	failAt  int // 1-based call index that fails; 0 means never
	calls   int
	lastErr error
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	if f.failAt > 0 && f.calls == f.failAt {
		f.lastErr = errors.New("connection reset")
		return nil, f.lastErr
	}
	data, _ := io.ReadAll(input.Body)
	f.keys = append(f.keys, *input.Key)
	f.bodies = append(f.bodies, string(data))
	return &s3.PutObjectOutput{}, nil
}

func newTestStore(client putObjectAPI) *Store {
	return &Store{client: client, bucket: "docs", publicURL: "https://cdn.example.org"}
}

func TestUpload(t *testing.T) {
	t.Run("stores file and returns descriptor", func(t *testing.T) {
		fake := &fakeS3{}
		store := newTestStore(fake)

		uploaded, err := store.Upload(context.Background(), File{
			Name:        "ration card.pdf",
			ContentType: "application/pdf",
			Size:        1234,
			Data:        strings.NewReader("pdf-bytes"),
		})
		require.NoError(t, err)

		assert.Equal(t, "ration card.pdf", uploaded.OriginalName)
		assert.Equal(t, int64(1234), uploaded.Size)
		assert.Equal(t, "application/pdf", uploaded.ContentType)
		assert.Equal(t, "https://cdn.example.org/"+uploaded.StoredName, uploaded.URL)
		assert.False(t, uploaded.UploadedAt.IsZero())

		require.Len(t, fake.bodies, 1)
		assert.Equal(t, "pdf-bytes", fake.bodies[0])
	})

	t.Run("defaults content type", func(t *testing.T) {
		fake := &fakeS3{}
		store := newTestStore(fake)

		uploaded, err := store.Upload(context.Background(), File{
			Name: "notes.bin",
			Data: strings.NewReader("x"),
		})
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", uploaded.ContentType)
	})
}

func TestUploadAll(t *testing.T) {
	t.Run("uploads sequentially in order", func(t *testing.T) {
		fake := &fakeS3{}
		store := newTestStore(fake)

		files := []File{
			{Name: "a.pdf", Data: strings.NewReader("a")},
			{Name: "b.jpg", Data: strings.NewReader("b")},
			{Name: "c.png", Data: strings.NewReader("c")},
		}
		uploaded, err := store.UploadAll(context.Background(), files)
		require.NoError(t, err)
		require.Len(t, uploaded, 3)
		assert.Equal(t, []string{"a", "b", "c"}, fake.bodies)
		assert.Equal(t, "a.pdf", uploaded[0].OriginalName)
	})

	t.Run("mid-batch failure aborts without a partial result", func(t *testing.T) {
		fake := &fakeS3{failAt: 2}
		store := newTestStore(fake)

		files := []File{
			{Name: "a.pdf", Data: strings.NewReader("a")},
			{Name: "b.jpg", Data: strings.NewReader("b")},
			{Name: "c.png", Data: strings.NewReader("c")},
		}
		uploaded, err := store.UploadAll(context.Background(), files)
		require.Error(t, err)
		assert.Nil(t, uploaded)
		assert.Contains(t, err.Error(), "b.jpg")
		// nothing past the failure point was attempted
		assert.Equal(t, 2, fake.calls)
	})
}

func TestObjectName(t *testing.T) {
	t.Run("keeps the extension", func(t *testing.T) {
		name := objectName("aadhaar copy.jpeg")
		assert.Equal(t, ".jpeg", filepath.Ext(name))
		assert.NotContains(t, name, " ")
	})

	t.Run("names are collision resistant", func(t *testing.T) {
		a := objectName("doc.pdf")
		b := objectName("doc.pdf")
		assert.NotEqual(t, a, b)
	})
}
