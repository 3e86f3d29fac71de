package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/formdata"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/store"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

// Well-known data keys copied onto orders.
const (
	fieldCustomerName = "customerName"
	fieldManufacturer = "manufacturer"
)

// PayloadError carries submit-time messages keyed by data path, such as
// "lineItems[0].productId". Renderers map the paths onto fields.
type PayloadError struct {
	Payload map[string][]string
}

func (e *PayloadError) Error() string {
	paths := make([]string, 0, len(e.Payload))
	for path := range e.Payload {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		parts = append(parts, path+": "+strings.Join(e.Payload[path], "; "))
	}
	return "service: submission rejected: " + strings.Join(parts, ", ")
}

// Outcome describes a completed submission.
type Outcome struct {
	Submission store.FormSubmission `json:"submission"`
	Order      *store.Order         `json:"order,omitempty"`
	SigningURL string               `json:"signingUrl,omitempty"`
}

// Submit completes session: the submission record is stored, an order is
// created when line items were collected, and the signing URL is resolved.
// submittedBy is recorded when known.
func (s *Service) Submit(ctx context.Context, session *wizard.Session, submittedBy string) (Outcome, error) {
	var outcome Outcome
	tpl := session.Template()

	_, err := session.Submit(ctx, func(ctx context.Context, sub wizard.Submission) error {
		result, err := s.Persist(ctx, tpl, sub, submittedBy)
		if err != nil {
			return err
		}
		outcome = result
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

// Persist stores sub as a FormSubmission (and Order) without a live session.
// The terminal flow calls it directly.
func (s *Service) Persist(ctx context.Context, tpl model.FormTemplate, sub wizard.Submission, submittedBy string) (Outcome, error) {
	signingURL := s.ResolveSigningURL(tpl, sub.Data)

	var items []store.OrderItem
	if len(sub.LineItems) > 0 {
		var err error
		if items, err = s.priceLineItems(ctx, sub.LineItems); err != nil {
			return Outcome{}, err
		}
	}

	status := store.SubmissionSubmitted
	if signingURL != "" {
		status = store.SubmissionSigning
	}
	record, err := s.records.Submissions.Add(ctx, store.FormSubmission{
		SessionID:   sub.SessionID,
		TemplateID:  sub.TemplateID,
		Data:        sub.Data,
		LineItems:   sub.LineItems,
		Status:      status,
		SigningURL:  signingURL,
		SubmittedBy: submittedBy,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("service: store submission: %w", err)
	}
	outcome := Outcome{Submission: record, SigningURL: signingURL}

	if len(items) > 0 {
		order, err := s.records.Orders.Add(ctx, store.Order{
			SubmissionID: record.ID,
			CustomerName: sub.Data.String(fieldCustomerName),
			Manufacturer: sub.Data.String(fieldManufacturer),
			Items:        items,
			Status:       store.OrderPending,
		})
		if err != nil {
			if rmErr := s.records.Submissions.Remove(ctx, record.ID); rmErr != nil {
				s.logger.Warn("rollback submission failed", zap.String("submission", record.ID), zap.Error(rmErr))
			}
			return Outcome{}, fmt.Errorf("service: store order: %w", err)
		}
		outcome.Order = &order
	}

	s.logger.Info("wizard submitted",
		zap.String("template", sub.TemplateID),
		zap.String("submission", record.ID),
		zap.Int("line_items", len(sub.LineItems)),
		zap.Bool("signing", signingURL != ""),
	)
	return outcome, nil
}

// ResolveSigningURL picks the DocuSeal URL for data: the template's entry
// for the signing field value, then its default, then the configured base
// URL. Templates without signing resolve to "".
func (s *Service) ResolveSigningURL(tpl model.FormTemplate, data formdata.Data) string {
	if tpl.Signing == nil {
		return ""
	}
	if key := strings.TrimSpace(data.String(tpl.Signing.Field)); key != "" {
		if url, ok := tpl.Signing.URLs[key]; ok && url != "" {
			return url
		}
	}
	if tpl.Signing.Default != "" {
		return tpl.Signing.Default
	}
	return s.docuSealURL
}

func (s *Service) priceLineItems(ctx context.Context, lineItems []model.LineItem) ([]store.OrderItem, error) {
	rejected := &PayloadError{Payload: make(map[string][]string)}
	items := make([]store.OrderItem, 0, len(lineItems))
	for i, item := range lineItems {
		product, err := s.records.Products.Get(ctx, item.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			path := fmt.Sprintf("lineItems[%d].productId", i)
			rejected.Payload[path] = append(rejected.Payload[path], fmt.Sprintf("Product %q is no longer available", item.ProductID))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("service: load product: %w", err)
		}
		items = append(items, store.OrderItem{
			ProductID:      product.ID,
			SKU:            product.SKU,
			Name:           product.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: product.PriceCents,
		})
	}
	if len(rejected.Payload) > 0 {
		return nil, rejected
	}
	return items, nil
}
