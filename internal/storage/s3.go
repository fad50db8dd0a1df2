package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/famtree/backend/internal/util"
	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"
	loaderio "github.com/OFFIS-RIT/famtree/backend/pkg/loader/io"
	loaders3 "github.com/OFFIS-RIT/famtree/backend/pkg/loader/s3"
	"github.com/OFFIS-RIT/famtree/backend/pkg/loader/web"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNoBucket is returned when S3 access is requested without AWS_BUCKET.
var ErrNoBucket = errors.New("AWS_BUCKET is not set")

// Bucket returns the configured bucket name.
func Bucket() string {
	return util.GetEnv("AWS_BUCKET")
}

// NewS3Client builds a path-style S3 client from the AWS_* environment.
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	region := util.GetEnvString("AWS_REGION", "us-east-1")
	endpoint := util.GetEnv("AWS_ENDPOINT")
	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(endpoint))
	}
	if accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return client, nil
}

// NewS3TableLoader returns a table loader for the configured bucket.
func NewS3TableLoader(ctx context.Context) (*loaders3.S3TableFileLoader, error) {
	bucket := Bucket()
	if bucket == "" {
		return nil, ErrNoBucket
	}
	client, err := NewS3Client(ctx)
	if err != nil {
		return nil, err
	}
	return loaders3.NewS3TableFileLoaderWithClient(bucket, client), nil
}

// SampleTable resolves the sample family table from SAMPLE_SOURCE ("fs",
// "s3" or "http") and SAMPLE_PATH.
func SampleTable(ctx context.Context) (loader.TableFile, error) {
	path := util.GetEnvString("SAMPLE_PATH", "samples/example_family.csv")

	var l loader.TableFileLoader
	switch source := util.GetEnvString("SAMPLE_SOURCE", "fs"); source {
	case "fs":
		l = loaderio.NewIOTableFileLoader()
	case "s3":
		s3Loader, err := NewS3TableLoader(ctx)
		if err != nil {
			return loader.TableFile{}, err
		}
		l = s3Loader
	case "http":
		l = web.NewWebTableFileLoader()
	default:
		return loader.TableFile{}, fmt.Errorf("unknown SAMPLE_SOURCE %q", source)
	}

	return loader.NewCSVTableFile(loader.NewTableFileParams{
		ID:       "sample",
		FilePath: path,
		Loader:   l,
	}), nil
}
