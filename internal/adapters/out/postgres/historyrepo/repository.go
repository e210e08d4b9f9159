package historyrepo

import (
	"context"

	"orders/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GormStatusHistoryRepository implements ports.StatusHistoryRepository
// using GORM.
type GormStatusHistoryRepository struct {
	db *gorm.DB
}

// NewGormStatusHistoryRepository creates a new GORM history repository.
func NewGormStatusHistoryRepository(db *gorm.DB) *GormStatusHistoryRepository {
	return &GormStatusHistoryRepository{db: db}
}

// Append inserts one new history entry.
func (r *GormStatusHistoryRepository) Append(ctx context.Context, entry *order.StatusChange) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByOrder retrieves all entries for an order, oldest first.
func (r *GormStatusHistoryRepository) ListByOrder(
	ctx context.Context,
	orderID int64,
) ([]*order.StatusChange, error) {
	var dtos []StatusChangeDTO
	err := r.db.WithContext(ctx).
		Where("orden_id = ?", orderID).
		Order("changed_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*order.StatusChange, 0, len(dtos))
	for _, dto := range dtos {
		entry, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
