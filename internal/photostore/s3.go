package photostore

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
)

// S3Store lists photos under a key prefix of an S3 or S3-compatible bucket.
type S3Store struct {
	client    s3.ListObjectsV2APIClient
	bucket    string
	prefix    string
	publicURL string
}

// NewS3Store creates a store from settings using the default AWS credential
// chain. A custom endpoint selects an S3-compatible server such as MinIO.
func NewS3Store(ctx context.Context, settings *conf.S3Settings) (*S3Store, error) {
	if settings.Bucket == "" {
		return nil, errors.Newf("s3 bucket required").
			Component("photostore").
			Category(errors.CategoryConfiguration).
			Build()
	}
	var opts []func(*awsconfig.LoadOptions) error
	if settings.Region != "" {
		opts = append(opts, awsconfig.WithRegion(settings.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New(err).
			Component("photostore").
			Category(errors.CategoryConfiguration).
			Context("bucket", settings.Bucket).
			Build()
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
		}
		o.UsePathStyle = settings.UsePathStyle
	})

	publicURL := settings.PublicURL
	if publicURL == "" {
		switch {
		case settings.Endpoint != "":
			publicURL = strings.TrimSuffix(settings.Endpoint, "/") + "/" + settings.Bucket
		default:
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", settings.Bucket, cfg.Region)
		}
	}

	GetLogger().Debug("using s3 photo store",
		logger.String("bucket", settings.Bucket),
		logger.String("prefix", settings.Prefix))
	return NewS3StoreWithClient(client, settings.Bucket, settings.Prefix, publicURL), nil
}

// NewS3StoreWithClient creates a store over an existing client.
func NewS3StoreWithClient(client s3.ListObjectsV2APIClient, bucket, prefix, publicURL string) *S3Store {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Store{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// List implements Store. Only objects directly under the prefix are returned.
func (s *S3Store) List(ctx context.Context) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(s.prefix),
		Delimiter: aws.String("/"),
	})

	var names []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errors.New(err).
				Component("photostore").
				Category(errors.CategoryPhotoStore).
				Context("bucket", s.bucket).
				Context("prefix", s.prefix).
				Build()
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			names = append(names, name)
		}
	}
	return names, nil
}

// URL implements Store.
func (s *S3Store) URL(name string) string {
	return s.publicURL + "/" + path.Join(s.prefix, url.PathEscape(name))
}
