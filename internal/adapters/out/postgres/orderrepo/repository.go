package orderrepo

import (
	"context"
	"errors"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order and its product lines, then writes the generated
// identifier back onto the aggregate.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return aggregate.SetID(dto.OrdenID)
}

// Update persists the mutable non-status attributes of an existing order.
// Status changes must go through UpdateStatus.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("orden_id = ?", aggregate.ID()).
		Update("direccion", aggregate.Address())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orden_id", aggregate.ID())
	}

	return nil
}

// UpdateStatus persists the aggregate's status and delivery timestamp,
// conditioned on the row still holding the expected status. Zero affected
// rows means the state moved underneath the caller: the row is re-read and
// the actual state is reported in a fresh InvalidTransitionError, or a
// not-found error if the order disappeared entirely.
func (r *GormOrderRepository) UpdateStatus(
	ctx context.Context,
	aggregate *order.Order,
	expected order.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("orden_id = ? AND estado = ?", aggregate.ID(), expected.String()).
		Updates(map[string]any{
			"estado":        aggregate.Status().String(),
			"fecha_entrega": aggregate.DeliveredAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var current string
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select("estado").
		Where("orden_id = ?", aggregate.ID()).
		Take(&current).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("orden_id", aggregate.ID())
		}
		return err
	}

	currentStatus, err := order.ParseStatus(current)
	if err != nil {
		return err
	}

	return errs.NewInvalidTransitionError(
		currentStatus.String(),
		aggregate.Status().String(),
		currentStatus.AllowedNextStrings(),
	)
}

// Get retrieves an order with its product lines by identifier.
func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&dto, "orden_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orden_id", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Delete removes an order. Product lines and history rows follow through
// the cascading foreign keys.
func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "orden_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orden_id", id)
	}

	return nil
}
