package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/HNHalstead/gisaid-script/pkg/retry"
)

// objectGetter is the subset of the S3 client the fetcher needs.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher downloads s3:// URLs. Failures are rendered in the same
// vocabulary the copy tool uses so Classify treats both alike.
type S3Fetcher struct {
	Retry retry.Config

	mu     sync.Mutex
	client objectGetter
}

// NewS3Fetcher returns a fetcher that builds its client from the default
// AWS credential chain on first use.
func NewS3Fetcher(cfg retry.Config) *S3Fetcher {
	return &S3Fetcher{Retry: cfg}
}

func (f *S3Fetcher) getClient(ctx context.Context) (objectGetter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client != nil {
		return f.client, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	f.client = s3.NewFromConfig(awsCfg)
	return f.client, nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(url string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(url, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 URL: %q", url)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("s3 URL must name an object: %q", url)
	}
	return bucket, key, nil
}

func (f *S3Fetcher) Fetch(ctx context.Context, url, destDir string) Result {
	bucket, key, err := ParseS3URL(url)
	if err != nil {
		return commandFailure(err)
	}

	client, err := f.getClient(ctx)
	if err != nil {
		return commandFailure(err)
	}

	dest := filepath.Join(destDir, path.Base(key))
	err = retry.Do(ctx, f.Retry, func() error {
		out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
		if err != nil {
			return err
		}
		defer out.Body.Close()
		return writeAtomic(dest, out.Body)
	})
	if err != nil {
		if isAccessDenied(err) {
			return Result{Stderr: "AccessDeniedException: 403 " + err.Error() + "\n", Err: err}
		}
		return commandFailure(err)
	}

	return Result{Stdout: fmt.Sprintf("Copying %s -> %s\n", url, dest)}
}

func commandFailure(err error) Result {
	return Result{Stderr: "CommandException: " + err.Error() + "\n", Err: err}
}

func isAccessDenied(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return true
		}
	}
	return false
}

// writeAtomic streams r into path via a temporary file in the same directory.
func writeAtomic(path string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
