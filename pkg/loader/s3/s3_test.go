package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/OFFIS-RIT/famtree/backend/pkg/loader"
)

type fakeBucket struct {
	objects map[string]string
	calls   int
}

func (f *fakeBucket) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	body, ok := f.objects[*params.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3TableFileLoader_GetFileBytes(t *testing.T) {
	bucket := &fakeBucket{objects: map[string]string{
		"samples/example_family.csv": "id,first_name\np1,Taro\n",
	}}
	l := NewS3TableFileLoaderWithClient("tables", bucket)

	file := loader.NewCSVTableFile(loader.NewTableFileParams{
		ID:       "sample",
		FilePath: "samples/example_family.csv",
		Loader:   l,
	})

	text, err := file.GetText(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "id,first_name\np1,Taro\n" {
		t.Fatalf("unexpected content %q", text)
	}
	if bucket.calls != 1 {
		t.Fatalf("expected 1 GetObject call, got %d", bucket.calls)
	}
}

func TestS3TableFileLoader_NotFound(t *testing.T) {
	l := NewS3TableFileLoaderWithClient("tables", &fakeBucket{objects: map[string]string{}})

	file := loader.NewCSVTableFile(loader.NewTableFileParams{FilePath: "nope.csv", Loader: l})
	_, err := file.GetBytes(context.Background())
	if !errors.Is(err, loader.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
