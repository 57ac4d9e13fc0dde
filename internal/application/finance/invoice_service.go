package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/finance"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/infrastructure/event"
	"github.com/verone/backoffice/internal/infrastructure/storage"
	"github.com/verone/backoffice/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// InvoiceService mirrors provider invoices and drives their workflow
type InvoiceService struct {
	invoiceRepo    finance.InvoiceRepository
	creditNoteRepo finance.CreditNoteRepository
	quoteRepo      finance.QuoteRepository
	provider       finance.BillingProvider
	archive        *pdfArchive
	jobs           JobSubmitter
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// InvoiceServiceOption is a functional option for configuring InvoiceService
type InvoiceServiceOption func(*InvoiceService)

// WithPDFArchive archives provider PDFs into object storage
func WithPDFArchive(documents storage.ObjectStorage, fetcher DocumentFetcher) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.archive = &pdfArchive{documents: documents, fetcher: fetcher}
	}
}

// WithJobSubmitter archives PDFs in the background after finalization
func WithJobSubmitter(jobs JobSubmitter) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.jobs = jobs
	}
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo finance.InvoiceRepository,
	creditNoteRepo finance.CreditNoteRepository,
	quoteRepo finance.QuoteRepository,
	provider finance.BillingProvider,
	logger *zap.Logger,
	opts ...InvoiceServiceOption,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &InvoiceService{
		invoiceRepo:    invoiceRepo,
		creditNoteRepo: creditNoteRepo,
		quoteRepo:      quoteRepo,
		provider:       provider,
		logger:         logger,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the publisher of invoice workflow events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Sync pulls a provider invoice into the local mirror. A known invoice is
// refreshed in place and keeps its workflow status.
func (s *InvoiceService) Sync(ctx context.Context, req SyncInvoiceRequest) (*InvoiceResponse, error) {
	snapshot, err := s.provider.GetInvoice(ctx, req.ProviderInvoiceID)
	if err != nil {
		return nil, err
	}

	inv, err := s.invoiceRepo.FindByProviderID(ctx, req.ProviderInvoiceID)
	switch {
	case shared.IsNotFound(err):
		inv, err = finance.NewSynchronizedInvoice(*snapshot)
		if err != nil {
			return nil, err
		}
		inv.PartnerID = req.PartnerID
		inv.SalesOrderID = req.SalesOrderID
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return nil, err
		}
		s.logger.Info("Invoice synchronized",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("qonto_invoice_id", inv.ProviderInvoiceID),
		)
	case err != nil:
		return nil, err
	default:
		inv.Refresh(*snapshot)
		if req.PartnerID != nil {
			inv.PartnerID = req.PartnerID
		}
		if req.SalesOrderID != nil {
			inv.SalesOrderID = req.SalesOrderID
		}
		if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
			return nil, err
		}
	}
	s.publish(ctx, inv)

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetByID retrieves an invoice with its credit notes and source quote
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceDetailResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	creditNotes, err := s.creditNoteRepo.FindByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &InvoiceDetailResponse{
		InvoiceResponse: ToInvoiceResponse(inv),
		CreditNotes:     make([]CreditNoteResponse, len(creditNotes)),
	}
	for i := range creditNotes {
		detail.CreditNotes[i] = ToCreditNoteResponse(&creditNotes[i])
	}

	quote, err := s.quoteRepo.FindByInvoice(ctx, id)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if quote != nil {
		q := ToQuoteResponse(quote)
		detail.Quote = &q
	}
	return detail, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "document_date"
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	if filter.WorkflowStatus != "" {
		domainFilter.Filters[finance.FilterWorkflowStatus] = filter.WorkflowStatus
	}
	if filter.PartnerID != nil {
		domainFilter.Filters[finance.FilterPartnerID] = *filter.PartnerID
	}
	if filter.SalesOrderID != nil {
		domainFilter.Filters[finance.FilterSalesOrderID] = *filter.SalesOrderID
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// Update applies edits to a copy of the invoice, pushes the result to the
// provider and only then stores it locally
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (resp *InvoiceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "update",
		attribute.String("invoice.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.CheckEditable(); err != nil {
		return nil, err
	}

	edit := inv.EditBuffer()
	req.applyTo(&edit)
	if err := edit.Validate(); err != nil {
		return nil, err
	}

	lines := finance.EditToProviderLines(edit, inv.Currency)
	snapshot, err := s.provider.UpdateInvoice(ctx, inv.ProviderInvoiceID, lines, edit)
	if err != nil {
		return nil, fmt.Errorf("push invoice %s to provider: %w", inv.DocumentNumber, err)
	}

	if err := inv.ApplyEdit(edit); err != nil {
		return nil, err
	}
	if snapshot != nil {
		if snapshot.PDFURL != "" {
			inv.ProviderPDFURL = snapshot.PDFURL
		}
		if snapshot.PublicURL != "" {
			inv.ProviderPublicURL = snapshot.PublicURL
		}
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// ValidateToDraft confirms a synchronized invoice as a draft
func (s *InvoiceService) ValidateToDraft(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.ValidateToDraft(); err != nil {
		return nil, err
	}
	return s.save(ctx, inv)
}

// Finalize finalizes the invoice at the provider and schedules PDF archival
func (s *InvoiceService) Finalize(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTransition(inv, finance.WorkflowFinalized); err != nil {
		return nil, err
	}

	snapshot, err := s.provider.FinalizeInvoice(ctx, inv.ProviderInvoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkFinalized(*snapshot); err != nil {
		return nil, err
	}
	resp, err := s.save(ctx, inv)
	if err != nil {
		return nil, err
	}
	s.scheduleArchive(inv.ID)
	return resp, nil
}

// MarkSent emails the invoice through the provider
func (s *InvoiceService) MarkSent(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTransition(inv, finance.WorkflowSent); err != nil {
		return nil, err
	}
	if err := s.provider.SendInvoice(ctx, inv.ProviderInvoiceID); err != nil {
		return nil, err
	}
	if err := inv.MarkSent(); err != nil {
		return nil, err
	}
	return s.save(ctx, inv)
}

// MarkPaid records the payment at the provider and locally
func (s *InvoiceService) MarkPaid(ctx context.Context, id uuid.UUID, req MarkPaidRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTransition(inv, finance.WorkflowPaid); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}
	paidAt := s.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	if _, err := s.provider.MarkInvoicePaid(ctx, inv.ProviderInvoiceID, paidAt); err != nil {
		return nil, err
	}
	if err := inv.MarkPaid(req.Amount); err != nil {
		return nil, err
	}
	return s.save(ctx, inv)
}

// VATBreakdown groups the invoice amounts by VAT rate
func (s *InvoiceService) VATBreakdown(ctx context.Context, id uuid.UUID) (*VATBreakdownResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &VATBreakdownResponse{
		InvoiceID: inv.ID,
		Lines:     inv.VATBreakdown(),
		TotalHT:   inv.TotalHT,
		TVAAmount: inv.TVAAmount,
		TotalTTC:  inv.TotalTTC,
	}, nil
}

// PDF returns the archived PDF when present, archiving it on first access.
// Without an archive the provider URL is returned as is.
func (s *InvoiceService) PDF(ctx context.Context, id uuid.UUID) (*DocumentURLResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.archive.enabled() {
		if inv.ProviderPDFURL == "" {
			return nil, ErrDocumentNotAvailable
		}
		return &DocumentURLResponse{URL: inv.ProviderPDFURL}, nil
	}

	if resp, ok, err := s.archive.presign(ctx, inv.PDFStorageKey); err != nil || ok {
		return resp, err
	}
	if err := s.archivePDF(ctx, inv); err != nil {
		return nil, err
	}
	resp, _, err := s.archive.presign(ctx, inv.PDFStorageKey)
	return resp, err
}

// ArchivePDF copies the provider PDF of an invoice into object storage
func (s *InvoiceService) ArchivePDF(ctx context.Context, id uuid.UUID) error {
	if !s.archive.enabled() {
		return nil
	}
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.archivePDF(ctx, inv)
}

func (s *InvoiceService) archivePDF(ctx context.Context, inv *finance.Invoice) error {
	if inv.ProviderPDFURL == "" {
		snapshot, err := s.provider.GetInvoice(ctx, inv.ProviderInvoiceID)
		if err != nil {
			return err
		}
		inv.ProviderPDFURL = snapshot.PDFURL
	}
	number := inv.DocumentNumber
	if number == "" {
		number = inv.ProviderInvoiceID
	}
	key := storage.InvoicePDFKey(number)
	if err := s.archive.store(ctx, key, inv.ProviderPDFURL); err != nil {
		return err
	}
	inv.PDFStorageKey = key
	inv.UpdatedAt = s.now()
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return err
	}
	s.logger.Info("Invoice PDF archived",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("key", key),
	)
	return nil
}

func (s *InvoiceService) scheduleArchive(id uuid.UUID) {
	if s.jobs == nil || !s.archive.enabled() {
		return
	}
	if _, err := s.jobs.Submit("invoice-pdf-archive:"+id.String(), func(ctx context.Context) error {
		return s.ArchivePDF(ctx, id)
	}); err != nil {
		s.logger.Warn("Failed to schedule invoice PDF archival",
			zap.String("invoice_id", id.String()),
			zap.Error(err),
		)
	}
}

// CreateQuoteFromInvoice creates a provider quote copying the invoice lines,
// valid 30 days, and links it to the invoice
func (s *InvoiceService) CreateQuoteFromInvoice(ctx context.Context, id uuid.UUID) (*QuoteResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(inv.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Cannot build a quote from an invoice without items")
	}

	clientID := ""
	if inv.PartnerID != nil {
		clientID = inv.PartnerID.String()
	}
	doc := finance.QuoteDocumentFor(inv, clientID, s.now())
	created, err := s.provider.CreateQuote(ctx, doc)
	if err != nil {
		return nil, err
	}
	quote, err := finance.NewQuoteFromInvoice(inv, doc, *created)
	if err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		// The provider quote exists at this point; it is not rolled back.
		s.logger.Error("Quote created at provider but not stored locally",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("qonto_quote_id", created.ID),
			zap.Error(err),
		)
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

func (s *InvoiceService) checkTransition(inv *finance.Invoice, target finance.WorkflowStatus) error {
	if !inv.WorkflowStatus.CanTransitionTo(target) {
		return shared.NewDomainError(shared.ErrInvalidStatusTransition.Code,
			fmt.Sprintf("Cannot move invoice from %s to %s", inv.WorkflowStatus, target))
	}
	return nil
}

func (s *InvoiceService) save(ctx context.Context, inv *finance.Invoice) (*InvoiceResponse, error) {
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	s.publish(ctx, inv)
	response := ToInvoiceResponse(inv)
	return &response, nil
}

func (s *InvoiceService) publish(ctx context.Context, inv *finance.Invoice) {
	if err := event.PublishPending(ctx, s.eventPublisher, inv); err != nil {
		s.logger.Warn("Failed to publish invoice events",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
	}
}
