// Package historyrepo persists the append-only status audit trail.
package historyrepo

import (
	"time"

	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// StatusChangeDTO is one row of the audit trail. Rows are inserted once
// and never updated; they are removed only by the cascade when the parent
// order is deleted.
type StatusChangeDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrdenID   int64     `gorm:"column:orden_id;index"`
	Previous  string    `gorm:"column:estado_anterior"`
	Next      string    `gorm:"column:estado_nuevo"`
	Reason    *string   `gorm:"column:motivo"`
	ChangedBy string    `gorm:"column:changed_by"`
	ChangedAt time.Time `gorm:"column:changed_at;index"`

	Order orderrepo.OrderDTO `gorm:"foreignKey:OrdenID;references:OrdenID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "order_status_history".
func (StatusChangeDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(entry *order.StatusChange) StatusChangeDTO {
	var reason *string
	if r := entry.Reason(); r != "" {
		reason = &r
	}

	return StatusChangeDTO{
		ID:        entry.ID(),
		OrdenID:   entry.OrderID(),
		Previous:  entry.Previous().String(),
		Next:      entry.Next().String(),
		Reason:    reason,
		ChangedBy: entry.ChangedBy(),
		ChangedAt: entry.ChangedAt(),
	}
}

func toDomain(dto StatusChangeDTO) (*order.StatusChange, error) {
	previous, err := order.ParseStatus(dto.Previous)
	if err != nil {
		return nil, err
	}
	next, err := order.ParseStatus(dto.Next)
	if err != nil {
		return nil, err
	}

	reason := ""
	if dto.Reason != nil {
		reason = *dto.Reason
	}

	return order.RestoreStatusChange(dto.ID, dto.OrdenID, previous, next, reason, dto.ChangedBy, dto.ChangedAt)
}
