package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"rental/config"
	"rental/infras/otel"
	"rental/shared/constant"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Object is one file to store. An empty Bucket means the configured default.
type Object struct {
	Bucket      string
	Directory   string
	Name        string
	ContentType string
	Body        []byte
}

func (o Object) key() string {
	return path.Join(o.Directory, o.Name)
}

type S3 interface {
	// Put stores the object and returns its public URL.
	Put(ctx context.Context, object Object) (url string, err error)
}

type s3Impl struct {
	client *s3.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, ot otel.Otel) S3 {
	storage := cfg.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(storage.AccessKeyID, storage.SecretAccessKey, "")),
		awsConfig.WithRegion(storage.Region),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to load object storage configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if storage.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(storage.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &s3Impl{
		client: client,
		cfg:    cfg,
		otel:   ot,
	}
}

func (svc *s3Impl) Put(ctx context.Context, object Object) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Put")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if object.Bucket == "" {
		object.Bucket = svc.cfg.External.S3.BucketName
	}

	key := object.key()

	scope.SetAttributes(map[string]any{
		"s3.bucket": object.Bucket,
		"s3.key":    key,
		"s3.size":   len(object.Body),
	})

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(object.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(object.Body),
		ContentType:   aws.String(object.ContentType),
		ContentLength: aws.Int64(int64(len(object.Body))),
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", object.Bucket).Str("key", key).Msg("failed to put object")

		return "", fmt.Errorf("failed to put %s: %w", key, err)
	}

	return publicURL(svc.cfg.External.S3.PublicDomain, key), nil
}

func publicURL(domain, key string) string {
	return strings.TrimRight(domain, "/") + "/" + strings.TrimLeft(key, "/")
}
