package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/balance/internal/server/config"
)

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Archive keeps a copy of every attachment envelope sent through the
// message store.
type Archive interface {
	Put(ctx context.Context, key string, body []byte) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// S3Archive stores envelopes in an S3-compatible bucket (MinIO in
// development).
type S3Archive struct {
	config *sc.Config
}

func NewS3Archive(cfg *sc.Config) *S3Archive {
	return &S3Archive{config: cfg}
}

// AttachmentKey is the object key of an archived envelope.
func AttachmentKey(at time.Time, messageID, name string) string {
	return fmt.Sprintf("attachments/%d/%d/%d/%s/%s", at.Year(), at.Month(), at.Day(), messageID, path.Base(name))
}

func (a *S3Archive) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(a.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.config.S3RootUser,
			a.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(a.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (a *S3Archive) Put(ctx context.Context, key string, body []byte) error {
	c, err := a.client(ctx)
	if err != nil {
		return err
	}

	_, err = putObject(c, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	return err
}

func (a *S3Archive) PresignGet(ctx context.Context, key string) (string, error) {
	c, err := a.client(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(newS3PresignClient(c), ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.config.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
