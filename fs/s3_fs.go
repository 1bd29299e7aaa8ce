package fs

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/m-manu/rfind/entity"
)

const (
	s3Delimiter     = "/"
	s3DirectoryMode = fs.ModeDir | 0755
	s3ObjectMode    = fs.FileMode(0644)
)

// S3API is the subset of the S3 client used by S3FS
type S3API interface {
	s3.ListObjectsV2APIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3FS implements FileSystem over one S3 bucket. Locations are object key
// prefixes; "/" (or "") is the bucket root. Directories are the common
// prefixes of a delimiter listing.
type S3FS struct {
	client S3API
	bucket string
}

// NewS3FS wraps an S3 client bound to given bucket in a FileSystem.
func NewS3FS(client S3API, bucket string) *S3FS {
	return &S3FS{client: client, bucket: bucket}
}

func (s *S3FS) ListDirectory(ctx context.Context, location string) ([]entity.Entry, error) {
	key := strings.Trim(location, s3Delimiter)
	prefix := ""
	if key != "" {
		prefix = key + s3Delimiter
	}
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(s3Delimiter),
	})
	entries := make([]entity.Entry, 0, 64)
	seenAnything := false
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, unreachable(s.describe(location), err)
		}
		for _, cp := range page.CommonPrefixes {
			seenAnything = true
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), s3Delimiter)
			if name == "" {
				continue
			}
			entries = append(entries, entity.NewEntry(name, entity.Stat{Mode: s3DirectoryMode, Nlink: 1}))
		}
		for _, obj := range page.Contents {
			seenAnything = true
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			// Zero-byte "folder" markers share the key of the prefix itself
			if name == "" {
				continue
			}
			if obj.Size == nil || obj.LastModified == nil {
				return nil, metadataError(s.describe(prefix+name), fmt.Errorf("incomplete object attributes"))
			}
			entries = append(entries, entity.NewEntry(name, entity.Stat{
				Mode:    s3ObjectMode,
				Nlink:   1,
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			}))
		}
	}
	if !seenAnything && key != "" {
		return nil, s.classifyMissing(ctx, location, key)
	}
	return entries, nil
}

// classifyMissing is called when nothing lives under a prefix: it's either a
// plain object or nothing at all.
func (s *S3FS) classifyMissing(ctx context.Context, location string, key string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return notADirectory(s.describe(location))
	}
	return unreachable(s.describe(location), fmt.Errorf("no such prefix: %w", err))
}

func (s *S3FS) describe(location string) string {
	return "s3://" + s.bucket + "/" + strings.TrimPrefix(location, s3Delimiter)
}

func (s *S3FS) Close() error {
	return nil
}
