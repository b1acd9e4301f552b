package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/banquethub/banquethub-backend/internal/config"
)

// Storage uploads media files to S3, falling back to local disk when
// AWS credentials are not configured.
type Storage struct {
	uploader  *s3manager.Uploader
	s3Client  *s3.S3
	bucket    string
	useS3     bool
	baseURL   string
	uploadDir string
}

func NewStorage(cfg config.StorageConfig) (*Storage, error) {
	if cfg.AWSRegion != "" && cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(cfg.AWSRegion),
			Credentials: credentials.NewStaticCredentials(
				cfg.AWSAccessKey,
				cfg.AWSSecretKey,
				"",
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %v", err)
		}

		logrus.Info("AWS S3 storage initialized")
		return &Storage{
			uploader: s3manager.NewUploader(sess),
			s3Client: s3.New(sess),
			bucket:   cfg.S3Bucket,
			useS3:    true,
		}, nil
	}

	if err := os.MkdirAll(filepath.Join(cfg.UploadDir, "media"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %v", err)
	}

	logrus.Warn("AWS S3 not configured, using local file storage")
	return &Storage{
		useS3:     false,
		uploadDir: cfg.UploadDir,
		baseURL:   cfg.BaseURL,
	}, nil
}

// UploadMedia stores an uploaded file and returns its public URL and
// detected content type.
func (s *Storage) UploadMedia(file *multipart.FileHeader, folder string) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, src); err != nil {
		return "", "", fmt.Errorf("failed to read file: %v", err)
	}

	contentType := http.DetectContentType(buffer.Bytes())
	fileExt := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), fileExt)

	if s.useS3 {
		url, err := s.uploadToS3(fileName, contentType, buffer.Bytes())
		return url, contentType, err
	}

	url, err := s.uploadLocally(fileName, buffer.Bytes())
	return url, contentType, err
}

func (s *Storage) uploadToS3(fileName, contentType string, data []byte) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("S3 bucket name not configured")
	}

	_, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	region := aws.StringValue(s.s3Client.Config.Region)
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, region, fileName), nil
}

func (s *Storage) uploadLocally(fileName string, data []byte) (string, error) {
	fullPath := filepath.Join(s.uploadDir, fileName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}

	return fmt.Sprintf("%s/uploads/%s", s.baseURL, fileName), nil
}
