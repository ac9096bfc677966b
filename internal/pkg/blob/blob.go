package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	appcfg "github.com/eyxpoliba/emotion-core/internal/config"
)

// ErrNotFound is returned by Download when no object exists under the name.
var ErrNotFound = errors.New("blob not found")

// Object is a downloaded blob with the metadata handlers need to serve it.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store wraps the S3-compatible bucket that holds the survey images.
type Store struct {
	client *s3.Client
	bucket string
}

func New(opts appcfg.StorageConfig) (*Store, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	region := strings.TrimSpace(opts.Region)
	if bucket == "" || region == "" {
		return nil, fmt.Errorf("incomplete storage config: bucket and region are required")
	}

	awsCfg := aws.Config{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			strings.TrimSpace(opts.AccessKeyID),
			strings.TrimSpace(opts.SecretAccessKey),
			"",
		),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := strings.TrimSpace(opts.Endpoint); endpoint != "" {
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			o.BaseEndpoint = aws.String(strings.TrimSuffix(endpoint, "/"))
		}
		o.UsePathStyle = opts.PathStyleAccess
	})

	return &Store{client: client, bucket: bucket}, nil
}

// RandomImageNames lists the bucket and returns up to n object names in
// random order. Fewer than n objects means the whole list, shuffled.
func (s *Store) RandomImageNames(ctx context.Context, n int) ([]string, error) {
	var names []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bucket %q: %w", s.bucket, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && *obj.Key != "" {
				names = append(names, *obj.Key)
			}
		}
	}

	rand.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names, nil
}

// Download fetches a single object by name. Callers own closing the body.
func (s *Store) Download(ctx context.Context, name string) (*Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noKey) || errors.As(err, &notFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get object %q: %w", name, err)
	}

	obj := &Object{Body: out.Body, ContentType: "application/octet-stream"}
	if out.ContentType != nil && *out.ContentType != "" {
		obj.ContentType = *out.ContentType
	}
	if out.ContentLength != nil {
		obj.Size = *out.ContentLength
	}
	return obj, nil
}
