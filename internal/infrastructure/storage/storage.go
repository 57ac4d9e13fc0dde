// Package storage keeps generated documents (contract PDFs, archived invoice
// PDFs) in an S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/verone/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ContentTypePDF is the content type of archived documents
const ContentTypePDF = "application/pdf"

// ErrKeyRequired is returned by every operation given an empty key
var ErrKeyRequired = errors.New("storage key is required")

// ObjectStorage is implemented by every driver
type ObjectStorage interface {
	// EnsureBucket creates the bucket when it does not exist
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// GenerateDownloadURL presigns a GET for key. A non-positive expiresIn
	// uses the configured default.
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	DeleteObject(ctx context.Context, key string) error
}

// New builds the driver named by cfg.Driver
func New(cfg *config.StorageConfig, logger *zap.Logger) (ObjectStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	switch cfg.Driver {
	case "", "s3":
		return NewS3ObjectStorage(cfg, WithLogger(logger))
	case "minio":
		return NewMinIOStorage(cfg, logger)
	case "memory":
		logger.Warn("using in-memory document storage, documents are lost on restart")
		return NewMemoryStorage("", cfg.PresignExpiration), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ContractDocumentKey is the object key of a rendered contract
func ContractDocumentKey(contractID string, at time.Time) string {
	return fmt.Sprintf("contracts/%s/contract-%s.pdf", contractID, at.UTC().Format("20060102T150405Z"))
}

// InvoicePDFKey is the object key of an archived invoice PDF
func InvoicePDFKey(documentNumber string) string {
	return fmt.Sprintf("invoices/%s.pdf", documentNumber)
}

// CreditNotePDFKey is the object key of an archived credit note PDF
func CreditNotePDFKey(number string) string {
	return fmt.Sprintf("credit-notes/%s.pdf", number)
}
