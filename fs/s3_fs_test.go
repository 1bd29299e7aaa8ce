package fs

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/m-manu/rfind/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 answers delimiter listings over a flat set of object keys
type fakeS3 struct {
	objects map[string]int64
	listErr error
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	prefix, delimiter := aws.ToString(in.Prefix), aws.ToString(in.Delimiter)
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{}
	seen := map[string]bool{}
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		if i := strings.Index(rest, delimiter); i >= 0 {
			cp := prefix + rest[:i+1]
			if !seen[cp] {
				seen[cp] = true
				out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(cp)})
			}
			continue
		}
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			Size:         aws.Int64(f.objects[k]),
			LastModified: aws.Time(time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)),
		})
	}
	return out, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; ok {
		return &s3.HeadObjectOutput{}, nil
	}
	return nil, &types.NotFound{}
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]int64{
		"readme.md":          12,
		"data/":              0,
		"data/a.csv":         42,
		"data/b.csv":         7,
		"data/2024/jan.csv":  1,
		"logs/app/today.log": 100,
	}}
}

func TestS3FS_ListDirectory_Root(t *testing.T) {
	s3fs := NewS3FS(newFakeS3(), "bucket")
	for _, root := range []string{"/", ""} {
		entries, err := s3fs.ListDirectory(context.Background(), root)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "data", entries[0].Name)
		assert.Equal(t, entity.KindDirectory, entries[0].Kind)
		assert.Equal(t, "logs", entries[1].Name)
		assert.Equal(t, "readme.md", entries[2].Name)
		assert.Equal(t, entity.KindFile, entries[2].Kind)
		assert.Equal(t, int64(12), entries[2].Stat.Size)
	}
}

func TestS3FS_ListDirectory_Prefix(t *testing.T) {
	entries, err := NewS3FS(newFakeS3(), "bucket").ListDirectory(context.Background(), "/data")
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	// the "data/" marker object isn't an entry of its own
	assert.Equal(t, []string{"2024", "a.csv", "b.csv"}, names)
	assert.Equal(t, int64(42), entries[1].Stat.Size)
	assert.Equal(t, 2024, entries[1].Stat.ModTime.Year())
	assert.Equal(t, "-rw-r--r--", entries[1].Stat.Mode.String())
}

func TestS3FS_ListDirectory_Errors(t *testing.T) {
	s3fs := NewS3FS(newFakeS3(), "bucket")

	_, err := s3fs.ListDirectory(context.Background(), "/readme.md")
	assert.True(t, errors.Is(err, ErrNotADirectory))
	assert.Contains(t, err.Error(), "s3://bucket/readme.md")

	_, err = s3fs.ListDirectory(context.Background(), "/nothing/here")
	assert.True(t, errors.Is(err, ErrUnreachable))

	broken := newFakeS3()
	broken.listErr = errors.New("access denied")
	_, err = NewS3FS(broken, "bucket").ListDirectory(context.Background(), "/")
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.Contains(t, err.Error(), "access denied")
}
