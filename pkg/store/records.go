package store

import (
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/formdata"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/model"
)

// SalesRep is a field representative customers and orders are attributed to.
type SalesRep struct {
	Meta
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Territory string `json:"territory,omitempty"`
	Active    bool   `json:"active"`
}

// Customer is an onboarded facility.
type Customer struct {
	Meta
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	NPI        string `json:"npi,omitempty"`
	SalesRepID string `json:"salesRepId,omitempty"`
}

// Product is an orderable catalogue entry.
type Product struct {
	Meta
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Category     string `json:"category,omitempty"`
	PriceCents   int64  `json:"priceCents"`
}

// Option returns the select option offered for the product.
func (p Product) Option() model.Option {
	return model.Option{Label: p.Name + " (" + p.SKU + ")", Value: p.ID}
}

// Submission statuses.
const (
	SubmissionSubmitted = "submitted"
	SubmissionSigning   = "awaiting-signature"
)

// FormSubmission is the persisted outcome of one completed wizard.
type FormSubmission struct {
	Meta
	SessionID   string           `json:"sessionId,omitempty"`
	TemplateID  string           `json:"templateId"`
	Data        formdata.Data    `json:"data"`
	LineItems   []model.LineItem `json:"lineItems,omitempty"`
	Status      string           `json:"status"`
	SigningURL  string           `json:"signingUrl,omitempty"`
	SubmittedBy string           `json:"submittedBy,omitempty"`
}

// OrderItem is a priced line of an order.
type OrderItem struct {
	ProductID      string `json:"productId"`
	SKU            string `json:"sku,omitempty"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

// TotalCents is quantity times unit price.
func (i OrderItem) TotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}

// Order statuses.
const (
	OrderPending = "pending"
)

// Order is created from submissions carrying line items.
type Order struct {
	Meta
	SubmissionID string      `json:"submissionId"`
	CustomerName string      `json:"customerName,omitempty"`
	Manufacturer string      `json:"manufacturer,omitempty"`
	Items        []OrderItem `json:"items"`
	Status       string      `json:"status"`
}

// TotalCents sums the order lines.
func (o Order) TotalCents() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.TotalCents()
	}
	return total
}

// User roles.
const (
	RoleAdmin    = "admin"
	RoleSalesRep = "sales_rep"
)

// User is an account allowed to sign in.
type User struct {
	Meta
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash string `json:"passwordHash"`
}
