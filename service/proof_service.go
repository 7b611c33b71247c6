package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"time"

	model "github.com/adelorme/qr1board/models"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"gorm.io/gorm"
)

// ErrProofStorageNotConfigured is returned when the QR1_S3_* variables were
// absent at startup.
var ErrProofStorageNotConfigured = errors.New("proof storage is not configured")

// UploadProof stores a closure-proof file in the proof bucket and writes the
// resulting public URL into the action's proof_link. Returns the URL.
func (s *ActionService) UploadProof(actionID string, file multipart.File, header *multipart.FileHeader) (string, error) {
	if s.s3Client == nil {
		return "", ErrProofStorageNotConfigured
	}

	var a model.Action
	if err := s.db.Where("action_id = ?", actionID).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("action %s not found", actionID)
		}
		log.Printf("[UploadProof] Error fetching action %s: %v", actionID, err)
		return "", fmt.Errorf("failed to fetch action %s: %w", actionID, err)
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[UploadProof] Error reading file: %v", err)
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	bucket := os.Getenv("QR1_S3_BUCKET")
	if bucket == "" {
		return "", fmt.Errorf("bucket name not configured")
	}

	key := fmt.Sprintf("%s/%d-%s", actionID, time.Now().Unix(), header.Filename)
	uploadInput := &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(fileBytes),
		ACL:         aws.String("public-read"),
		ContentType: aws.String(header.Header.Get("Content-Type")),
	}
	if _, err := s.s3Client.PutObject(uploadInput); err != nil {
		log.Printf("[UploadProof] S3 upload error: %v", err)
		return "", fmt.Errorf("failed to upload proof to S3: %w", err)
	}

	proofURL := fmt.Sprintf("%s/%s/%s", os.Getenv("QR1_S3_PUBLIC_URL"), bucket, key)
	log.Printf("[UploadProof] Proof stored at: %s", proofURL)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&a).Update("proof_link", proofURL).Error; err != nil {
			return fmt.Errorf("failed to update proof link: %w", err)
		}
		return writeAudit(tx, actionID, model.AuditEventProof, map[string]interface{}{
			"proof_link": proofURL,
		})
	})
	if err != nil {
		log.Printf("[UploadProof] Error saving proof link for %s: %v", actionID, err)
		return "", err
	}
	return proofURL, nil
}
