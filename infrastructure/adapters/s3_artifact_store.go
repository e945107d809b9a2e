package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/AnnNaserNabil/ComicX/application/ports/outbound"
	"github.com/AnnNaserNabil/ComicX/config"
	"github.com/AnnNaserNabil/ComicX/domain"
)

type s3ArtifactStore struct {
	logger outbound.LoggerPort
	s3Svc  *s3.S3
	bucket string
}

// NewS3ArtifactStore keeps artifacts under comics/<jobID>/<name> in the
// configured bucket. The object key doubles as the artifact ref.
func NewS3ArtifactStore(s3Svc *s3.S3, cfg *config.StorageConfig, logger outbound.LoggerPort) outbound.ArtifactStorePort {
	return &s3ArtifactStore{
		logger: logger,
		s3Svc:  s3Svc,
		bucket: cfg.S3Bucket,
	}
}

func (s *s3ArtifactStore) Save(ctx context.Context, jobID, name, contentType string, data []byte) (string, error) {
	key := s.objectKey(jobID, name)

	_, err := s.s3Svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		s.logger.ErrorWithFields(err, "failed to upload artifact to S3", map[string]interface{}{
			"bucket": s.bucket,
			"key":    key,
		})
		return "", err
	}

	s.logger.DebugWithFields("artifact uploaded to S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"bytes":  len(data),
	})
	return key, nil
}

func (s *s3ArtifactStore) Load(ctx context.Context, ref string) ([]byte, string, error) {
	out, err := s.s3Svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, "", domain.ErrArtifactNotFound
		}
		return nil, "", err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read S3 object body: %w", err)
	}
	return data, aws.StringValue(out.ContentType), nil
}

func (s *s3ArtifactStore) DeleteAll(ctx context.Context, jobID string) error {
	prefix := s.objectKey(jobID, "")

	listed, err := s.s3Svc.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return err
	}
	if len(listed.Contents) == 0 {
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(listed.Contents))
	for _, obj := range listed.Contents {
		objects = append(objects, &s3.ObjectIdentifier{Key: obj.Key})
	}
	_, err = s.s3Svc.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3.Delete{Objects: objects},
	})
	return err
}

func (s *s3ArtifactStore) objectKey(jobID, name string) string {
	return fmt.Sprintf("comics/%s/%s", jobID, name)
}
