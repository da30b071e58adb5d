package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// s3API is the part of *s3.Client the store uses.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3 struct {
	client    s3API
	bucket    string
	publicURL string
}

// NewS3 loads AWS credentials from the default chain. publicURL is the base
// objects are served from (a CDN, say); it defaults to the bucket endpoint.
func NewS3(ctx context.Context, region, bucket, publicURL string) (*S3, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3{client: s3.NewFromConfig(cfg), bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *S3) UploadImage(ctx context.Context, obj Object) (Uploaded, error) {
	key := objectKey(obj.Folder, obj.Filename)
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        obj.Body,
		ContentType: aws.String(obj.ContentType),
	}
	if obj.Size > 0 {
		in.ContentLength = aws.Int64(obj.Size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return Uploaded{}, errors.Wrapf(err, "s3 put %s", key)
	}
	return Uploaded{URL: s.publicURL + "/" + key, PublicID: key, Provider: ProviderS3}, nil
}
