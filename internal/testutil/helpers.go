package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// GenerateTestBucketName generates a unique, DNS-compliant bucket name for testing.
func GenerateTestBucketName(prefix string) string {
	name := fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), rand.Intn(10000))
	name = strings.ToLower(name)
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}

// CreateTestObject creates a test S3 object with the given parameters.
func CreateTestObject(key string, size int64, lastModified time.Time) types.Object {
	return types.Object{
		Key:          aws.String(key),
		Size:         aws.Int64(size),
		LastModified: aws.Time(lastModified),
		ETag:         aws.String(fmt.Sprintf("\"%x\"", size)),
		StorageClass: types.ObjectStorageClassStandard,
	}
}

// CreateListObjectsV2Output creates a ListObjectsV2Output for testing.
func CreateListObjectsV2Output(
	objects []types.Object,
	isTruncated bool,
	nextToken string,
) *s3.ListObjectsV2Output {
	output := &s3.ListObjectsV2Output{
		Contents:    objects,
		IsTruncated: aws.Bool(isTruncated),
		KeyCount:    aws.Int32(int32(len(objects))),
	}
	if nextToken != "" {
		output.NextContinuationToken = aws.String(nextToken)
	}
	return output
}
