package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlobName(t *testing.T) {
	name := NewBlobName("avatar.JPG")
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.Len(t, name, 36+len(".jpg"))

	assert.True(t, strings.HasSuffix(NewBlobName("noext"), ".png"))
	assert.True(t, strings.HasSuffix(NewBlobName("trailing."), ".png"))
	assert.NotEqual(t, NewBlobName("a.png"), NewBlobName("a.png"))
}

func TestNewBlobName_UnsafeExtensionFallsBack(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), "http://localhost:8000/static")
	require.NoError(t, err)

	for _, filename := range []string{"a.b/c", "x.../../etc", "pic.toolongextension", "pic.p g"} {
		name := NewBlobName(filename)
		assert.True(t, strings.HasSuffix(name, ".png"), filename)
		assert.NoError(t, store.Save(ctx, name, "image/png", bytes.NewReader([]byte("x"))), filename)
	}
}

func TestNameFromURL(t *testing.T) {
	assert.Equal(t, "abc.png", NameFromURL("http://localhost:8000/static/abc.png"))
	assert.Equal(t, "abc.png", NameFromURL("https://cdn.example.com/images/abc.png"))
	assert.Equal(t, "abc.png", NameFromURL("abc.png"))
}

func TestFileStore_SaveAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewFileStore(dir, "http://localhost:8000/static/")
	require.NoError(t, err)

	err = store.Save(ctx, "pic.png", "image/png", bytes.NewReader([]byte("image-bytes")))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "pic.png"))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))

	url := store.URL("pic.png")
	assert.Equal(t, "http://localhost:8000/static/pic.png", url)
	assert.Equal(t, "pic.png", NameFromURL(url))

	require.NoError(t, store.Delete(ctx, "pic.png"))
	_, err = os.Stat(filepath.Join(dir, "pic.png"))
	assert.True(t, os.IsNotExist(err))

	err = store.Delete(ctx, "pic.png")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "static")

	store, err := NewFileStore(dir, "http://localhost/static")
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStore_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), "http://localhost/static")
	require.NoError(t, err)

	for _, name := range []string{"", "..", "../escape.png", "sub/dir.png"} {
		err := store.Save(ctx, name, "image/png", bytes.NewReader(nil))
		assert.Error(t, err, name)
		assert.Error(t, store.Delete(ctx, name), name)
	}
}

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	headErr error
	buckets map[string]bool
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}, buckets: map[string]bool{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	f.types[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if !f.buckets[*in.Bucket] {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if f.buckets[*in.Bucket] {
		return nil, &types.BucketAlreadyOwnedByYou{}
	}
	f.buckets[*in.Bucket] = true
	return &s3.CreateBucketOutput{}, nil
}

func TestS3Store_EnsureBucket(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := &S3Store{client: fake, bucket: "portfolio"}

	require.NoError(t, store.EnsureBucket(ctx))
	assert.True(t, fake.buckets["portfolio"])

	// Second call finds the bucket.
	require.NoError(t, store.EnsureBucket(ctx))
}

func TestS3Store_SaveAndDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	store := &S3Store{client: fake, bucket: "portfolio", baseURL: "https://cdn.example.com"}

	err := store.Save(ctx, "pic.jpg", "image/jpeg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), fake.objects["images/pic.jpg"])
	assert.Equal(t, "image/jpeg", fake.types["images/pic.jpg"])

	url := store.URL("pic.jpg")
	assert.Equal(t, "https://cdn.example.com/images/pic.jpg", url)
	assert.Equal(t, "pic.jpg", NameFromURL(url))

	require.NoError(t, store.Delete(ctx, "pic.jpg"))
	assert.Empty(t, fake.objects)

	assert.ErrorIs(t, store.Delete(ctx, "pic.jpg"), ErrBlobNotFound)
}

func TestS3Store_DeleteSurfacesOtherErrors(t *testing.T) {
	fake := newFakeS3()
	fake.headErr = errors.New("connection reset")
	store := &S3Store{client: fake, bucket: "portfolio", baseURL: "https://cdn.example.com"}

	err := store.Delete(context.Background(), "pic.jpg")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBlobNotFound)
}

func TestNewS3Store(t *testing.T) {
	store, err := NewS3Store(context.Background(), S3Config{
		Bucket:        "portfolio",
		Region:        "us-east-1",
		Endpoint:      "http://localhost:9000",
		AccessKey:     "minio",
		SecretKey:     "minio123",
		UsePathStyle:  true,
		PublicBaseURL: "http://localhost:9000/portfolio",
	})
	require.NoError(t, err)
	assert.Equal(t, "portfolio", store.bucket)
	assert.Equal(t, "http://localhost:9000/portfolio/images/a.png", store.URL("a.png"))
}
