package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/formdata"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/store"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/templates"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/wizard"
)

type fixture struct {
	svc     *Service
	records *store.Set
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	builtin, err := templates.Builtin()
	require.NoError(t, err)
	records := store.NewMemorySet()
	require.NoError(t, store.Seed(ctx, records, store.User{}))

	f := &fixture{records: records, now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	f.svc, err = New(builtin, records,
		WithClock(func() time.Time { return f.now }),
		WithSessionTTL(time.Hour),
		WithDocuSealURL("https://docuseal.example"),
	)
	require.NoError(t, err)
	return f
}

func (f *fixture) product(t *testing.T, sku string) store.Product {
	t.Helper()
	product, err := store.First(context.Background(), f.records.Products, func(p store.Product) bool { return p.SKU == sku })
	require.NoError(t, err)
	return product
}

func fillOrder(t *testing.T, session *wizard.Session, productID string, quantity int) {
	t.Helper()
	steps := []map[string]any{
		{"customerName": "Mercy Wound Clinic", "customerEmail": "orders@mercy.example"},
		{"shippingStreet": "1 Main St", "shippingCity": "Austin", "shippingState": "TX", "shippingZip": "78701"},
		{"manufacturer": "acz"},
	}
	for _, values := range steps {
		require.NoError(t, session.SetFields(values))
		_, err := session.Next()
		require.NoError(t, err)
	}
	require.NoError(t, session.SetFields(map[string]any{model.FieldProduct: productID, model.FieldQuantity: quantity}))
	_, err := session.AddLineItem()
	require.NoError(t, err)
	_, err = session.Next()
	require.NoError(t, err)
	require.NoError(t, session.SetField("confirmOrder", true))
}

func TestNewRequiresTemplatesAndStore(t *testing.T) {
	_, err := New(templates.NewStore(), store.NewMemorySet())
	assert.Error(t, err)

	builtin, err := templates.Builtin()
	require.NoError(t, err)
	_, err = New(builtin, nil)
	assert.Error(t, err)
}

func TestTemplateDecoratesCatalogueAndSigning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tpl, err := f.svc.Template(ctx, templates.ProductOrderID)
	require.NoError(t, err)

	field, _, ok := tpl.FindField(model.FieldProduct)
	require.True(t, ok)
	assert.Len(t, field.Options, len(store.SampleProducts()))
	assert.Equal(t, "Collagen Matrix 2x2 (ACZ-CM-2X2)", field.Options[0].Label)
	assert.Equal(t, "https://docuseal.example", tpl.Signing.Default)

	onboarding, err := f.svc.Template(ctx, templates.CustomerOnboardingID)
	require.NoError(t, err)
	assert.False(t, onboarding.HasLineItems())

	_, err = f.svc.Template(ctx, "nope")
	assert.ErrorIs(t, err, templates.ErrNotFound)

	all, err := f.svc.Templates(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(f.svc.TemplateIDs()))

	labels, err := f.svc.ProductLabels(ctx)
	require.NoError(t, err)
	sku := f.product(t, "EXT-FD-10")
	assert.Equal(t, "Foam Dressing (10 pack) (EXT-FD-10)", labels[sku.ID].Label)
}

func TestSessionsAreRegisteredAndSwept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Start(ctx, templates.CustomerOnboardingID)
	require.NoError(t, err)
	got, err := f.svc.Session(first.ID())
	require.NoError(t, err)
	assert.Same(t, first, got)

	f.now = f.now.Add(45 * time.Minute)
	second, err := f.svc.Start(ctx, templates.CustomerOnboardingID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.svc.SessionCount())

	f.now = f.now.Add(30 * time.Minute)
	assert.Equal(t, 1, f.svc.Sweep())

	_, err = f.svc.Session(first.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.svc.Session(second.ID())
	assert.NoError(t, err)
}

func TestStartSweeper(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.StartSweeper("whenever")
	require.Error(t, err)

	stop, err := f.svc.StartSweeper("@every 1h")
	require.NoError(t, err)
	stop()
}

func TestSubmitCreatesSubmissionAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	product := f.product(t, "ACZ-CM-4X4")

	session, err := f.svc.Start(ctx, templates.ProductOrderID)
	require.NoError(t, err)
	fillOrder(t, session, product.ID, 2)

	outcome, err := f.svc.Submit(ctx, session, "u-1")
	require.NoError(t, err)

	assert.Equal(t, "https://docuseal.co/d/acz-order-form", outcome.SigningURL)
	assert.Equal(t, store.SubmissionSigning, outcome.Submission.Status)
	assert.Equal(t, "u-1", outcome.Submission.SubmittedBy)
	assert.Equal(t, templates.ProductOrderID, outcome.Submission.TemplateID)
	assert.Equal(t, "Mercy Wound Clinic", outcome.Submission.Data.String("customerName"))

	require.NotNil(t, outcome.Order)
	assert.Equal(t, outcome.Submission.ID, outcome.Order.SubmissionID)
	assert.Equal(t, "acz", outcome.Order.Manufacturer)
	require.Len(t, outcome.Order.Items, 1)
	assert.Equal(t, "ACZ-CM-4X4", outcome.Order.Items[0].SKU)
	assert.Equal(t, int64(240000), outcome.Order.TotalCents())

	stored, err := f.records.Orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	snap := session.Snapshot()
	assert.True(t, snap.State.Completed)
	assert.Equal(t, 0, snap.Data.Len())
}

func TestSubmitRejectsUnknownProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.Start(ctx, templates.ProductOrderID)
	require.NoError(t, err)
	fillOrder(t, session, "discontinued", 1)

	_, err = f.svc.Submit(ctx, session, "")
	require.Error(t, err)

	var payload *PayloadError
	require.True(t, errors.As(err, &payload))
	assert.Contains(t, payload.Payload, "lineItems[0].productId")

	mapping := render.MapErrorPayload(session.Template(), payload.Payload)
	assert.Equal(t, []string{`Product "discontinued" is no longer available`}, mapping.Form)

	snap := session.Snapshot()
	assert.False(t, snap.State.Loading)
	assert.False(t, snap.State.Completed)
	assert.Equal(t, "Mercy Wound Clinic", snap.Data.String("customerName"))

	submissions, err := f.records.Submissions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, submissions)
}

func TestSubmitWithoutLineItemsSkipsOrder(t *testing.T) {
	f := newFixture(t)
	tpl := model.FormTemplate{
		ID: "contact",
		Steps: []model.Step{{
			Title: "Contact",
			Sections: []model.FormSection{{
				ID:     "contact",
				Fields: []model.FormField{{ID: "name", Label: "Name", Type: model.FieldTypeText}},
			}},
		}},
	}
	outcome, err := f.svc.Persist(context.Background(), tpl, wizard.Submission{
		TemplateID: "contact",
		Data:       formdata.New(map[string]any{"name": "Ada"}),
	}, "")
	require.NoError(t, err)
	assert.Nil(t, outcome.Order)
	assert.Empty(t, outcome.SigningURL)
	assert.Equal(t, store.SubmissionSubmitted, outcome.Submission.Status)
}

func TestResolveSigningURL(t *testing.T) {
	f := newFixture(t)
	tpl := model.FormTemplate{Signing: &model.SigningConfig{
		Field: "manufacturer",
		URLs:  map[string]string{"legacy": "https://sign.example/legacy"},
	}}

	data := formdata.New(map[string]any{"manufacturer": "legacy"})
	assert.Equal(t, "https://sign.example/legacy", f.svc.ResolveSigningURL(tpl, data))

	data = formdata.New(map[string]any{"manufacturer": "unknown"})
	assert.Equal(t, "https://docuseal.example", f.svc.ResolveSigningURL(tpl, data))

	tpl.Signing.Default = "https://sign.example/default"
	assert.Equal(t, "https://sign.example/default", f.svc.ResolveSigningURL(tpl, data))

	assert.Empty(t, f.svc.ResolveSigningURL(model.FormTemplate{}, data))
}
