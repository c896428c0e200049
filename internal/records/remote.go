package records

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Remote issues parameterized lookups against the relational backend. Every
// query is bounded by a timeout so a stalled backend triggers the local
// fallback instead of hanging the caller's request.
type Remote struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewRemote(db *gorm.DB, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Remote{db: db, timeout: timeout}
}

func (r *Remote) Find(ctx context.Context, identifier string) ([]ProjectRecord, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rows []ProjectRecord
	err := r.db.WithContext(cctx).
		Raw(`SELECT * FROM obras_consolidadas WHERE id_obra ILIKE ?`, "%"+Normalize(identifier)+"%").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("remote lookup: %w", err)
	}

	for i := range rows {
		rows[i] = rows[i].normalized()
	}
	return rows, nil
}
