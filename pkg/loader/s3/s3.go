package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/singleflight"

	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"
)

// ObjectGetter is the subset of the S3 API the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3TableFileLoader is a TableFileLoader implementation that loads file
// contents from an S3 bucket. The FilePath of a TableFile is used as the
// object key.
//
// Objects are not cached, since uploaded tables are usually read once;
// concurrent reads of the same key share a single request.
type S3TableFileLoader struct {
	bucket string
	client ObjectGetter

	group singleflight.Group
}

// NewS3TableFileLoaderWithClient creates a new S3TableFileLoader using an
// existing client. This is useful if you want to reuse a preconfigured
// AWS client (e.g., with custom middleware or credentials).
func NewS3TableFileLoaderWithClient(bucket string, client ObjectGetter) *S3TableFileLoader {
	return &S3TableFileLoader{
		bucket: bucket,
		client: client,
	}
}

// NewS3TableFileLoaderParams defines the configuration parameters for
// creating a new S3TableFileLoader.
//
// Bucket specifies the S3 bucket name.
// Endpoint allows overriding the S3 endpoint (useful for S3-compatible
// storage like MinIO).
// Region specifies the AWS region.
// AccessKey and SecretKey provide static credentials.
type NewS3TableFileLoaderParams struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewS3TableFileLoader creates a new S3TableFileLoader using the provided
// parameters. It initializes an AWS S3 client with static credentials and
// the given endpoint/region.
//
// Example:
//
//	l, err := s3.NewS3TableFileLoader(ctx, s3.NewS3TableFileLoaderParams{
//		Bucket:    "family-tables",
//		Endpoint:  "http://localhost:9000",
//		Region:    "us-east-1",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
//		SecretKey: os.Getenv("AWS_SECRET_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	file := loader.NewCSVTableFile(loader.NewTableFileParams{FilePath: "samples/example_family.csv", Loader: l})
//	text, err := file.GetText(ctx)
func NewS3TableFileLoader(ctx context.Context, params NewS3TableFileLoaderParams) (*S3TableFileLoader, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(params.Region),
		config.WithBaseEndpoint(params.Endpoint),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			params.AccessKey,
			params.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return NewS3TableFileLoaderWithClient(params.Bucket, client), nil
}

// GetFileBytes retrieves the contents of the given TableFile from the
// configured S3 bucket. It implements the TableFileLoader interface.
func (l *S3TableFileLoader) GetFileBytes(ctx context.Context, file loader.TableFile) ([]byte, error) {
	result, err, _ := l.group.Do(loader.CacheKey(file), func() (any, error) {
		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(file.FilePath),
		})
		if err != nil {
			var noSuchKey *types.NoSuchKey
			if errors.As(err, &noSuchKey) {
				return nil, fmt.Errorf("%s/%s: %w", l.bucket, file.FilePath, loader.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get object %s/%s: %w", l.bucket, file.FilePath, err)
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, fmt.Errorf("failed to read object %s/%s: %w", l.bucket, file.FilePath, err)
		}

		return buf.Bytes(), nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
