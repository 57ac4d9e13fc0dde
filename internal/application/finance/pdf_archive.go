package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/infrastructure/scheduler"
	"github.com/verone/backoffice/internal/infrastructure/storage"
)

// ErrDocumentNotAvailable is returned when the provider has no PDF yet
var ErrDocumentNotAvailable = shared.NewDomainError("DOCUMENT_NOT_AVAILABLE", "The provider has not produced a PDF for this document yet")

// DocumentFetcher downloads provider-hosted documents
type DocumentFetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// JobSubmitter queues background work on the worker pool
type JobSubmitter interface {
	Submit(name string, task scheduler.TaskFunc) (*scheduler.Job, error)
}

// pdfArchive copies provider PDFs into object storage
type pdfArchive struct {
	documents storage.ObjectStorage
	fetcher   DocumentFetcher
}

func (a *pdfArchive) enabled() bool {
	return a != nil && a.documents != nil && a.fetcher != nil
}

// store downloads sourceURL and uploads it under key
func (a *pdfArchive) store(ctx context.Context, key, sourceURL string) error {
	if sourceURL == "" {
		return ErrDocumentNotAvailable
	}
	data, err := a.fetcher.Download(ctx, sourceURL)
	if err != nil {
		return fmt.Errorf("download %s: %w", key, err)
	}
	if err := a.documents.Upload(ctx, key, data, storage.ContentTypePDF); err != nil {
		return fmt.Errorf("archive %s: %w", key, err)
	}
	return nil
}

// presign returns a download URL when key is archived, ok=false otherwise
func (a *pdfArchive) presign(ctx context.Context, key string) (*DocumentURLResponse, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	exists, err := a.documents.ObjectExists(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", key, err)
	}
	if !exists {
		return nil, false, nil
	}
	url, expiresAt, err := a.documents.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		return nil, false, fmt.Errorf("presign %s: %w", key, err)
	}
	return &DocumentURLResponse{URL: url, ExpiresAt: timePtr(expiresAt), Archived: true}, true, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
