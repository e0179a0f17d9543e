package billing

import (
	"fmt"
	"time"
)

// Invoice statuses.
const (
	StatusDraft     = "Draft"
	StatusSent      = "Sent"
	StatusPaid      = "Paid"
	StatusCancelled = "Cancelled"
)

var ValidStatuses = []string{StatusDraft, StatusSent, StatusPaid, StatusCancelled}

func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Billing is an invoice issued by an organization. All monetary fields are in
// minor currency units. Totals are derived from the line items on the server;
// client-submitted totals are discarded.
type Billing struct {
	ID             int64         `json:"id" gorm:"primaryKey"`
	OrganizationID int64         `json:"organization_id" gorm:"column:organization_id;not null"`
	ContactID      *int64        `json:"contact_id,omitempty" gorm:"column:contact_id"`
	CreatedBy      int64         `json:"created_by" gorm:"column:created_by;not null"`
	InvoiceNumber  string        `json:"invoice_number" gorm:"column:invoice_number;uniqueIndex;not null"`
	Status         string        `json:"status" gorm:"default:Draft"`
	IssuedAt       time.Time     `json:"issued_at" gorm:"column:issued_at;not null"`
	DueAt          *time.Time    `json:"due_at,omitempty" gorm:"column:due_at"`
	PaidAt         *time.Time    `json:"paid_at,omitempty" gorm:"column:paid_at"`
	Subtotal       int64         `json:"subtotal" gorm:"not null;default:0"`
	TaxTotal       int64         `json:"tax_total" gorm:"column:tax_total;not null;default:0"`
	Discount       int64         `json:"discount" gorm:"not null;default:0"`
	GrandTotal     int64         `json:"grand_total" gorm:"column:grand_total;not null;default:0"`
	Notes          string        `json:"notes"`
	Items          []BillingItem `json:"items" gorm:"foreignKey:BillingID"`
	IsDeleted      bool          `json:"-" gorm:"column:is_deleted;default:false"`
	CreatedAt      time.Time     `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Billing) TableName() string {
	return "billings"
}

// BillingItem is one invoice line. LineTotal is quantity times unit amount,
// excluding tax.
type BillingItem struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	BillingID   int64  `json:"billing_id" gorm:"column:billing_id;not null"`
	ServiceID   *int64 `json:"service_id,omitempty" gorm:"column:service_id"`
	Description string `json:"description" gorm:"not null"`
	Quantity    int64  `json:"quantity" gorm:"not null"`
	UnitAmount  int64  `json:"unit_amount" gorm:"column:unit_amount;not null"`
	TaxAmount   int64  `json:"tax_amount" gorm:"column:tax_amount;not null;default:0"`
	LineTotal   int64  `json:"line_total" gorm:"column:line_total;not null"`
}

func (BillingItem) TableName() string {
	return "billing_items"
}

// RecomputeTotals rebuilds every derived amount from the line items. Whatever
// totals the caller submitted are overwritten. TaxAmount is declared per unit,
// so a line's tax contribution scales with its quantity.
func (b *Billing) RecomputeTotals() {
	var subtotal, taxTotal int64
	for i := range b.Items {
		item := &b.Items[i]
		item.LineTotal = item.Quantity * item.UnitAmount
		subtotal += item.LineTotal
		taxTotal += item.Quantity * item.TaxAmount
	}
	b.Subtotal = subtotal
	b.TaxTotal = taxTotal
	b.GrandTotal = subtotal + taxTotal - b.Discount
}

// FormatInvoiceNumber renders the canonical invoice number from the two
// sequence values and the organization initials.
func FormatInvoiceNumber(globalSeq int64, year int, orgInitials string, orgSeq int64) string {
	return fmt.Sprintf("INV-%d-%d-%s-%03d", globalSeq, year, orgInitials, orgSeq)
}
