package kvstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	apperrors "github.com/getmentor/engineer-form/pkg/errors"
)

// ObjectAPI is the subset of *s3.Client the store needs
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// ObjectStore keeps one JSON object per key in an S3-compatible bucket
type ObjectStore struct {
	api    ObjectAPI
	bucket string
	prefix string
}

// NewObjectStore creates a store writing objects under prefix in bucket
func NewObjectStore(api ObjectAPI, bucket, prefix string) *ObjectStore {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &ObjectStore{api: api, bucket: bucket, prefix: prefix}
}

func (o *ObjectStore) Name() string { return "s3" }

func (o *ObjectStore) objectKey(key string) string {
	return o.prefix + key + ".json"
}

func (o *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	out, err := o.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			err = notFound(key)
		} else {
			err = apperrors.StorageError("s3.get", err)
		}
		observe(ctx, o.Name(), "get", key, start, err)
		return nil, err
	}
	defer out.Body.Close()

	value, err := io.ReadAll(out.Body)
	if err != nil {
		err = apperrors.StorageError("s3.get", err)
		observe(ctx, o.Name(), "get", key, start, err)
		return nil, err
	}
	observe(ctx, o.Name(), "get", key, start, nil)
	return value, nil
}

func (o *ObjectStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	_, err := o.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(o.objectKey(key)),
		Body:        bytes.NewReader(value),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		err = apperrors.StorageError("s3.set", err)
	}
	observe(ctx, o.Name(), "set", key, start, err)
	return err
}

func (o *ObjectStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	_, err := o.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.objectKey(key)),
	})
	if err != nil {
		err = apperrors.StorageError("s3.delete", err)
	}
	observe(ctx, o.Name(), "delete", key, start, err)
	return err
}
