package s3

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type ItfS3 interface {
	UploadImage(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Enabled() bool
}

type s3Client struct {
	uploader   *s3manager.Uploader
	bucketName string
	prefix     string
}

func New() (ItfS3, error) {
	bucket := os.Getenv("AWS_BUCKET_NAME")
	if bucket == "" {
		return &s3Client{}, nil
	}

	sess, err := newSession()
	if err != nil {
		return nil, err
	}

	prefix := os.Getenv("AWS_KTP_PREFIX")
	if prefix == "" {
		prefix = "ktp"
	}

	return &s3Client{
		uploader:   s3manager.NewUploader(sess),
		bucketName: bucket,
		prefix:     prefix,
	}, nil
}

func (s *s3Client) Enabled() bool {
	return s.uploader != nil
}

func (s *s3Client) UploadImage(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	key := fmt.Sprintf("%s/%s/%s", s.prefix, time.Now().Format("2006/01/02"), name)
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return out.Location, nil
}

func newSession() (*session.Session, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
		Credentials: credentials.NewStaticCredentials(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		),
	})

	if err != nil {
		return nil, err
	}

	return sess, nil
}
