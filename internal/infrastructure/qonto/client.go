// Package qonto is the HTTP client of the Qonto business API, the external
// invoicing provider that client invoices, credit notes and quotes live in.
package qonto

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxResponseSize bounds API and document responses (20MB)
const maxResponseSize = 20 * 1024 * 1024

const idempotencyHeader = "X-Qonto-Idempotency-Key"

// Client calls the Qonto API with retries on transient failures
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewClient validates the credentials and builds a client
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		sleep:      sleepContext,
	}, nil
}

// AuthMode returns the configured auth mode
func (c *Client) AuthMode() AuthMode {
	return c.config.AuthMode
}

// GetClientInvoice fetches a client invoice
func (c *Client) GetClientInvoice(ctx context.Context, id string) (*ClientInvoice, error) {
	var out struct {
		ClientInvoice ClientInvoice `json:"client_invoice"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/client_invoices/"+id, nil, "", &out); err != nil {
		return nil, err
	}
	return &out.ClientInvoice, nil
}

// UpdateClientInvoice patches a draft invoice
func (c *Client) UpdateClientInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (*ClientInvoice, error) {
	var out struct {
		ClientInvoice ClientInvoice `json:"client_invoice"`
	}
	if err := c.do(ctx, http.MethodPatch, "/v2/client_invoices/"+id, req, "", &out); err != nil {
		return nil, err
	}
	return &out.ClientInvoice, nil
}

// FinalizeClientInvoice turns a draft into an unpaid invoice
func (c *Client) FinalizeClientInvoice(ctx context.Context, id string) (*ClientInvoice, error) {
	var out struct {
		ClientInvoice ClientInvoice `json:"client_invoice"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/client_invoices/"+id+"/finalize", nil, "", &out); err != nil {
		return nil, err
	}
	return &out.ClientInvoice, nil
}

// SendClientInvoice emails the invoice to the client contacts
func (c *Client) SendClientInvoice(ctx context.Context, id string, emails []string) error {
	body := map[string][]string{}
	if len(emails) > 0 {
		body["recipient_emails"] = emails
	}
	return c.do(ctx, http.MethodPost, "/v2/client_invoices/"+id+"/send", body, "", nil)
}

// MarkClientInvoicePaid records the payment date
func (c *Client) MarkClientInvoicePaid(ctx context.Context, id string, paidAt time.Time) (*ClientInvoice, error) {
	var out struct {
		ClientInvoice ClientInvoice `json:"client_invoice"`
	}
	req := MarkPaidRequest{PaidAt: NewDate(paidAt)}
	if err := c.do(ctx, http.MethodPost, "/v2/client_invoices/"+id+"/mark_as_paid", req, "", &out); err != nil {
		return nil, err
	}
	return &out.ClientInvoice, nil
}

// CreateClientCreditNote creates a draft credit note
func (c *Client) CreateClientCreditNote(ctx context.Context, req CreateCreditNoteRequest) (*CreditNote, error) {
	var out struct {
		CreditNote CreditNote `json:"client_credit_note"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/client_credit_notes", req, uuid.NewString(), &out); err != nil {
		return nil, err
	}
	return &out.CreditNote, nil
}

// GetClientCreditNote fetches a credit note
func (c *Client) GetClientCreditNote(ctx context.Context, id string) (*CreditNote, error) {
	var out struct {
		CreditNote CreditNote `json:"client_credit_note"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/client_credit_notes/"+id, nil, "", &out); err != nil {
		return nil, err
	}
	return &out.CreditNote, nil
}

// FinalizeClientCreditNote finalizes a draft credit note
func (c *Client) FinalizeClientCreditNote(ctx context.Context, id string) (*CreditNote, error) {
	var out struct {
		CreditNote CreditNote `json:"client_credit_note"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/client_credit_notes/"+id+"/finalize", nil, "", &out); err != nil {
		return nil, err
	}
	return &out.CreditNote, nil
}

// DeleteClientCreditNote deletes a draft credit note
func (c *Client) DeleteClientCreditNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v2/client_credit_notes/"+id, nil, "", nil)
}

// CreateQuote creates a quote
func (c *Client) CreateQuote(ctx context.Context, req CreateQuoteRequest) (*Quote, error) {
	var out struct {
		Quote Quote `json:"quote"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/quotes", req, uuid.NewString(), &out); err != nil {
		return nil, err
	}
	return &out.Quote, nil
}

// GetAttachment returns an attachment with its temporary download URL
func (c *Client) GetAttachment(ctx context.Context, id string) (*Attachment, error) {
	var out struct {
		Attachment Attachment `json:"attachment"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/attachments/"+id, nil, "", &out); err != nil {
		return nil, err
	}
	return &out.Attachment, nil
}

// GetBankAccounts lists the organization bank accounts
func (c *Client) GetBankAccounts(ctx context.Context) ([]BankAccount, error) {
	var out struct {
		BankAccounts []BankAccount `json:"bank_accounts"`
	}
	if err := c.do(ctx, http.MethodGet, "/v2/bank_accounts", nil, "", &out); err != nil {
		return nil, err
	}
	return out.BankAccounts, nil
}

// HealthCheck validates the credentials with a light call
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.GetBankAccounts(ctx)
	return err
}

// Download fetches a document URL (PDF links are pre-signed and need no auth)
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("qonto: failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, errorFromResponse(resp.StatusCode, nil)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("qonto: failed to read document: %w", err)
	}
	return data, nil
}

// do sends the request, retrying retryable failures with exponential backoff
func (c *Client) do(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("qonto: failed to encode request: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		err := c.attempt(ctx, method, path, payload, idempotencyKey, out)
		if err == nil {
			return nil
		}

		qe, ok := AsError(err)
		if !ok || !qe.Retryable() || attempt >= c.config.MaxRetries || ctx.Err() != nil {
			return err
		}

		delay := c.config.RetryDelay << attempt
		c.logger.Warn("Qonto request failed, retrying",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("code", qe.Code),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, idempotencyKey string, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("qonto: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.config.authorization())
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set(idempotencyHeader, idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode >= 400 {
		var details map[string]any
		_ = json.Unmarshal(data, &details)
		return errorFromResponse(resp.StatusCode, details)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("qonto: failed to decode response: %w", err)
	}
	return nil
}

// transportError classifies client-side failures as timeout or network errors
func transportError(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Code: CodeTimeout, Status: http.StatusRequestTimeout, Message: "Request timeout"}
	}
	return &Error{Code: CodeNetwork, Message: err.Error()}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
