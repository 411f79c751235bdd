package elements

import (
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/enhance/internal/errors"
	"github.com/vango-dev/enhance/pkg/expand"
)

// S3API is the subset of the S3 client LoadS3 uses. *s3.Client satisfies it.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadS3 compiles every element template stored under prefix in bucket.
func LoadS3(ctx context.Context, api S3API, bucket, prefix string) (expand.Registry, error) {
	reg := make(expand.Registry)
	pages := s3.NewListObjectsV2Paginator(api, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, errors.New("E012").
				WithDetailf("listing s3://%s/%s", bucket, prefix).
				Wrap(err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if path.Ext(key) != Ext {
				continue
			}
			src, err := getObject(ctx, api, bucket, key)
			if err != nil {
				return nil, err
			}
			if err := add(reg, key, src); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}

func getObject(ctx context.Context, api S3API, bucket, key string) ([]byte, error) {
	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("E012").WithDetailf("fetching s3://%s/%s", bucket, key).Wrap(err)
	}
	defer out.Body.Close()

	src, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E012").WithDetailf("reading s3://%s/%s", bucket, key).Wrap(err)
	}
	return src, nil
}

// NewS3Client returns an S3 client for region using the standard
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN variables.
func NewS3Client(region string) *s3.Client {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	})
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id := strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID"))
	secret := strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY"))
	if id == "" || secret == "" {
		return aws.Credentials{}, errors.New("E012").
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "EnvironmentVariables",
	}, nil
}
