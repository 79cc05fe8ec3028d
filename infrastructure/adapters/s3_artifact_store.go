package adapters

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/config"
	"veo-prompt-director/domain"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type s3ArtifactStore struct {
	logger   outbound.LoggerPort
	s3Svc    s3iface.S3API
	s3Config *config.S3Config
}

func NewS3ArtifactStore(logger outbound.LoggerPort, s3Svc s3iface.S3API, s3Config *config.S3Config) outbound.ArtifactStorePort {
	return &s3ArtifactStore{
		logger:   logger,
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3ArtifactStore) Save(ctx context.Context, artifact domain.Artifact) (string, error) {
	itemPath := path.Join(s.s3Config.Prefix, artifactName(artifact))

	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(itemPath),
		Body:          bytes.NewReader(artifact.Content),
		ContentLength: aws.Int64(int64(len(artifact.Content))),
		ContentType:   aws.String(artifact.MimeType),
	}

	_, err := s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to upload object to S3", map[string]interface{}{
			"bucket": s.s3Config.BucketName,
			"key":    itemPath,
		})
		return "", err
	}

	s3Url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Config.BucketName, s.s3Config.Region, itemPath)
	s.logger.DebugWithFields("Successfully uploaded object to S3", map[string]interface{}{"s3Url": s3Url})
	return s3Url, nil
}
