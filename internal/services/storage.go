package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"alfredoptarigan/skillsync/internal/config"
)

// StorageService keeps uploaded resumes. Location is an opaque key that is
// only meaningful to the driver that produced it.
type StorageService interface {
	SaveFile(ctx context.Context, data []byte, originalName, fileType string) (filename, location string, err error)
	ReadFile(ctx context.Context, location string) ([]byte, error)
	DeleteFile(ctx context.Context, location string) error
	Driver() string
}

func NewStorageService(ctx context.Context, cfg config.StorageConfig) (StorageService, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		return NewS3StorageService(ctx, cfg.S3)
	case config.StorageDriverLocal, "":
		local := NewLocalStorageService(cfg.UploadPath)
		if err := local.EnsureUploadDir(); err != nil {
			return nil, err
		}
		return local, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func uniqueFilename(originalName, fileType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := SupportedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: invalid file extension %q", ErrUnsupportedFileType, ext)
	}
	return fmt.Sprintf("%s_%s%s", fileType, uuid.New().String(), ext), nil
}

type LocalStorageService struct {
	uploadPath string
}

func NewLocalStorageService(uploadPath string) *LocalStorageService {
	return &LocalStorageService{uploadPath: uploadPath}
}

func (s *LocalStorageService) Driver() string {
	return config.StorageDriverLocal
}

func (s *LocalStorageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *LocalStorageService) SaveFile(_ context.Context, data []byte, originalName, fileType string) (string, string, error) {
	filename, err := uniqueFilename(originalName, fileType)
	if err != nil {
		return "", "", err
	}

	filePath := filepath.Join(s.uploadPath, filename)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, filePath, nil
}

func (s *LocalStorageService) ReadFile(_ context.Context, location string) ([]byte, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *LocalStorageService) DeleteFile(_ context.Context, location string) error {
	if err := os.Remove(location); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// s3StorageService stores uploads in an S3-compatible bucket such as
// Cloudflare R2.
type s3StorageService struct {
	client *s3.Client
	bucket string
}

func NewS3StorageService(ctx context.Context, cfg config.S3Config) (StorageService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3StorageService{client: client, bucket: cfg.Bucket}, nil
}

func (s *s3StorageService) Driver() string {
	return config.StorageDriverS3
}

func (s *s3StorageService) SaveFile(ctx context.Context, data []byte, originalName, fileType string) (string, string, error) {
	filename, err := uniqueFilename(originalName, fileType)
	if err != nil {
		return "", "", err
	}

	key := "uploads/" + filename
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(SupportedExtensions[strings.ToLower(filepath.Ext(filename))]),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to put object: %w", err)
	}

	return filename, key, nil
}

func (s *s3StorageService) ReadFile(ctx context.Context, location string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(location),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return data, nil
}

func (s *s3StorageService) DeleteFile(ctx context.Context, location string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(location),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
