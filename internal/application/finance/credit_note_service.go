package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/finance"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/infrastructure/event"
	"github.com/verone/backoffice/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// CreditNoteService issues credit notes against finalized invoices.
// Provider calls are not compensated when a later local step fails.
type CreditNoteService struct {
	creditNoteRepo finance.CreditNoteRepository
	invoiceRepo    finance.InvoiceRepository
	provider       finance.BillingProvider
	archive        *pdfArchive
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewCreditNoteService creates a new CreditNoteService. documents and fetcher
// may be nil, in which case PDFs are served from the provider.
func NewCreditNoteService(
	creditNoteRepo finance.CreditNoteRepository,
	invoiceRepo finance.InvoiceRepository,
	provider finance.BillingProvider,
	documents storage.ObjectStorage,
	fetcher DocumentFetcher,
	logger *zap.Logger,
) *CreditNoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreditNoteService{
		creditNoteRepo: creditNoteRepo,
		invoiceRepo:    invoiceRepo,
		provider:       provider,
		archive:        &pdfArchive{documents: documents, fetcher: fetcher},
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the publisher of credit note events
func (s *CreditNoteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a provider draft and its local copy
func (s *CreditNoteService) Create(ctx context.Context, invoiceID uuid.UUID, req CreateCreditNoteRequest) (*CreditNoteResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	cn, err := finance.NewCreditNote(inv, toInvoiceItems(req.Items), req.Reason)
	if err != nil {
		return nil, err
	}

	clientID := ""
	if inv.PartnerID != nil {
		clientID = inv.PartnerID.String()
	}
	created, err := s.provider.CreateCreditNote(ctx, finance.ProviderDocument{
		InvoiceID: inv.ProviderInvoiceID,
		ClientID:  clientID,
		IssueDate: s.now(),
		Reason:    cn.Reason,
		Lines:     finance.ItemsToProviderLines(cn.Items, inv.Currency),
	})
	if err != nil {
		return nil, err
	}
	cn.AttachProvider(*created)

	if err := s.creditNoteRepo.Save(ctx, cn); err != nil {
		s.logger.Error("Credit note created at provider but not stored locally",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("qonto_credit_note_id", created.ID),
			zap.Error(err),
		)
		return nil, err
	}
	s.logger.Info("Credit note drafted",
		zap.String("credit_note_id", cn.ID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("total_ttc", cn.TotalTTC.StringFixed(2)),
	)

	response := ToCreditNoteResponse(cn)
	return &response, nil
}

// GetByID retrieves a credit note
func (s *CreditNoteService) GetByID(ctx context.Context, id uuid.UUID) (*CreditNoteResponse, error) {
	cn, err := s.creditNoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCreditNoteResponse(cn)
	return &response, nil
}

// ListByInvoice lists the credit notes of an invoice
func (s *CreditNoteService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]CreditNoteResponse, error) {
	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	notes, err := s.creditNoteRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	responses := make([]CreditNoteResponse, len(notes))
	for i := range notes {
		responses[i] = ToCreditNoteResponse(&notes[i])
	}
	return responses, nil
}

// Finalize finalizes a draft credit note. The caller must confirm since the
// operation is irreversible.
func (s *CreditNoteService) Finalize(ctx context.Context, id uuid.UUID, req FinalizeCreditNoteRequest) (*CreditNoteResponse, error) {
	if !req.Confirm {
		return nil, finance.ErrConfirmationRequired
	}
	cn, err := s.creditNoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cn.IsFinalized() {
		return nil, finance.ErrCreditNoteFinalized
	}

	finalized, err := s.provider.FinalizeCreditNote(ctx, cn.ProviderCreditNoteID)
	if err != nil {
		return nil, err
	}
	if err := cn.Finalize(*finalized); err != nil {
		return nil, err
	}
	if err := s.creditNoteRepo.Save(ctx, cn); err != nil {
		return nil, err
	}
	if err := event.PublishPending(ctx, s.eventPublisher, cn); err != nil {
		s.logger.Warn("Failed to publish credit note events",
			zap.String("credit_note_id", cn.ID.String()),
			zap.Error(err),
		)
	}

	response := ToCreditNoteResponse(cn)
	return &response, nil
}

// Delete removes a draft credit note at the provider and locally
func (s *CreditNoteService) Delete(ctx context.Context, id uuid.UUID) error {
	cn, err := s.creditNoteRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := cn.CheckDeletable(); err != nil {
		return err
	}
	if cn.ProviderCreditNoteID != "" {
		if err := s.provider.DeleteCreditNote(ctx, cn.ProviderCreditNoteID); err != nil {
			return err
		}
	}
	return s.creditNoteRepo.Delete(ctx, id)
}

// PDF returns the credit note PDF, archiving finalized ones
func (s *CreditNoteService) PDF(ctx context.Context, id uuid.UUID) (*DocumentURLResponse, error) {
	cn, err := s.creditNoteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cn.ProviderPDFURL == "" && cn.ProviderCreditNoteID != "" {
		remote, err := s.provider.GetCreditNote(ctx, cn.ProviderCreditNoteID)
		if err != nil {
			return nil, err
		}
		cn.ProviderPDFURL = remote.PDFURL
	}
	if cn.ProviderPDFURL == "" {
		return nil, ErrDocumentNotAvailable
	}
	// Drafts change until finalized, only final PDFs are archived
	if !s.archive.enabled() || !cn.IsFinalized() || cn.Number == "" {
		return &DocumentURLResponse{URL: cn.ProviderPDFURL}, nil
	}

	key := storage.CreditNotePDFKey(cn.Number)
	if resp, ok, err := s.archive.presign(ctx, key); err != nil || ok {
		return resp, err
	}
	if err := s.archive.store(ctx, key, cn.ProviderPDFURL); err != nil {
		s.logger.Warn("Failed to archive credit note PDF, serving provider URL",
			zap.String("credit_note_id", cn.ID.String()),
			zap.Error(err),
		)
		return &DocumentURLResponse{URL: cn.ProviderPDFURL}, nil
	}
	resp, _, err := s.archive.presign(ctx, key)
	return resp, err
}
