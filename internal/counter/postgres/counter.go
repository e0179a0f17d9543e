package postgres

import (
	"github.com/crmkit/lead-management/internal/counter"
	"gorm.io/gorm"
)

type CounterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) counter.Sequencer {
	return &CounterRepository{db: db}
}

// Next increments and returns the named sequence in one statement. The
// upsert-increment must stay a single round trip: a read-then-write pair here
// would hand the same number to concurrent invoice creations.
func (r *CounterRepository) Next(name string) (int64, error) {
	var seq int64
	err := r.db.Raw(`INSERT INTO counters (name, seq, updated_at)
	                 VALUES (?, 1, CURRENT_TIMESTAMP)
	                 ON CONFLICT (name)
	                 DO UPDATE SET seq = counters.seq + 1, updated_at = CURRENT_TIMESTAMP
	                 RETURNING seq`, name).Row().Scan(&seq)
	if err != nil {
		return 0, err
	}
	return seq, nil
}
