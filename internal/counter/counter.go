package counter

import (
	"fmt"
	"time"
)

// Counter is a named monotonic sequence. Increments go through a single atomic
// upsert so that concurrent callers never observe duplicate or skipped values.
type Counter struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Seq       int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Counter) TableName() string {
	return "counters"
}

// Sequencer hands out the next value of a named sequence.
type Sequencer interface {
	Next(name string) (int64, error)
}

const invoiceGlobalKey = "invoice:global"

// InvoiceGlobalKey is the counter shared by every organization's invoices.
func InvoiceGlobalKey() string {
	return invoiceGlobalKey
}

// InvoiceOrgKey is the per-organization invoice counter.
func InvoiceOrgKey(orgID int64) string {
	return fmt.Sprintf("invoice:org:%d", orgID)
}
