package filestore

import (
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

/*

S3FileStore stores blog images in a S3 bucket fronted by a CDN.

publicPrefix is the CDN distribution the bucket is an origin of; the public
URL for an object is publicPrefix + key.

*/
type S3FileStore struct {
	bucket       string
	publicPrefix string
	uploader     *s3manager.Uploader
}

// NewS3FileStoreFromEnv reads S3_IMAGE_BUCKET and IMAGE_CDN_PREFIX and uses
// the ambient AWS credential chain.
func NewS3FileStoreFromEnv() (*S3FileStore, error) {
	bucket := os.Getenv("S3_IMAGE_BUCKET")
	prefix := os.Getenv("IMAGE_CDN_PREFIX")
	if bucket == "" || prefix == "" {
		return nil, errors.New("S3_IMAGE_BUCKET and IMAGE_CDN_PREFIX are required")
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create AWS session")
	}

	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &S3FileStore{
		bucket:       bucket,
		publicPrefix: prefix,
		uploader:     s3manager.NewUploader(sess),
	}, nil
}

func (s *S3FileStore) Upload(key, contentType string, body io.Reader) (string, error) {
	_, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "upload to S3")
	}
	return s.publicPrefix + key, nil
}
