package journal

import (
	"github.com/aws/aws-sdk-go/service/s3"

	"cbtrader/pkg/s3client"
)

// S3Uploader mirrors journal entries to an S3 bucket.
type S3Uploader struct {
	client *s3.S3
	bucket string
}

func NewS3Uploader(client *s3.S3, bucket string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket}
}

func (u *S3Uploader) Upload(key string, body []byte) error {
	return s3client.UploadObject(u.client, u.bucket, key, body)
}
