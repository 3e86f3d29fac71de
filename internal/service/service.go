// Package service runs wizard sessions against the template catalogue and
// the record store.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/store"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/templates"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

// ErrSessionNotFound is returned for unknown or swept session ids.
var ErrSessionNotFound = errors.New("service: session not found")

// DefaultSessionTTL bounds how long an idle session is kept.
const DefaultSessionTTL = 2 * time.Hour

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger (no-op by default).
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for sessions and sweeping.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionTTL sets the idle lifetime of wizard sessions.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithDocuSealURL sets the last-resort signing URL.
func WithDocuSealURL(url string) Option {
	return func(s *Service) {
		s.docuSealURL = url
	}
}

// Service owns the live wizard sessions.
type Service struct {
	templates   *templates.Store
	records     *store.Set
	logger      *zap.Logger
	now         func() time.Time
	ttl         time.Duration
	docuSealURL string

	mu       sync.Mutex
	sessions map[string]*wizard.Session
}

// New wires the template catalogue and the record store.
func New(tpls *templates.Store, records *store.Set, options ...Option) (*Service, error) {
	if tpls.Empty() {
		return nil, errors.New("service: no templates loaded")
	}
	if records == nil {
		return nil, errors.New("service: record store is required")
	}
	s := &Service{
		templates: tpls,
		records:   records,
		logger:    zap.NewNop(),
		now:       time.Now,
		ttl:       DefaultSessionTTL,
		sessions:  make(map[string]*wizard.Session),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Records exposes the underlying repositories.
func (s *Service) Records() *store.Set {
	return s.records
}

// TemplateIDs lists the available template ids.
func (s *Service) TemplateIDs() []string {
	return s.templates.IDs()
}

// Template returns template id decorated with the current product catalogue
// and the signing fallback.
func (s *Service) Template(ctx context.Context, id string) (model.FormTemplate, error) {
	tpl, err := s.templates.Get(id)
	if err != nil {
		return model.FormTemplate{}, err
	}
	if !tpl.HasLineItems() {
		return model.Decorate(tpl, templates.WithSigningDefault(s.docuSealURL))
	}
	options, err := s.ProductOptions(ctx)
	if err != nil {
		return model.FormTemplate{}, err
	}
	return model.Decorate(tpl,
		templates.WithProductCatalogue(options),
		templates.WithSigningDefault(s.docuSealURL),
	)
}

// Templates returns every decorated template.
func (s *Service) Templates(ctx context.Context) ([]model.FormTemplate, error) {
	ids := s.templates.IDs()
	out := make([]model.FormTemplate, 0, len(ids))
	for _, id := range ids {
		tpl, err := s.Template(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, nil
}

// ProductOptions returns the catalogue as select options.
func (s *Service) ProductOptions(ctx context.Context) ([]model.Option, error) {
	products, err := s.records.Products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: list products: %w", err)
	}
	options := make([]model.Option, 0, len(products))
	for _, product := range products {
		options = append(options, product.Option())
	}
	return options, nil
}

// ProductLabels indexes the catalogue options by product id for rendering
// line items.
func (s *Service) ProductLabels(ctx context.Context) (map[string]model.Option, error) {
	options, err := s.ProductOptions(ctx)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]model.Option, len(options))
	for _, option := range options {
		labels[option.Value] = option
	}
	return labels, nil
}
