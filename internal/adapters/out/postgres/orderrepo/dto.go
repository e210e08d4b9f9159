// Package orderrepo persists order aggregates. It maps between the domain
// model and the relational shape: one row in "orders" plus one row per
// product line in "order_products", columns named as the API exposes them.
package orderrepo

import (
	"time"

	"orders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderDTO is the database representation of an order aggregate. The
// status is stored as its lowercase string name so the audit trail and ad
// hoc queries stay readable without a lookup table.
type OrderDTO struct {
	OrdenID     int64           `gorm:"column:orden_id;primaryKey;autoIncrement"`
	UserID      string          `gorm:"column:user_id;index"`
	Email       string          `gorm:"column:correo_usuario"`
	Address     string          `gorm:"column:direccion"`
	FullName    string          `gorm:"column:nombre_completo"`
	Status      string          `gorm:"column:estado;index"`
	Total       decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	PaidAt      time.Time       `gorm:"column:fecha_pago;index"`
	DeliveredAt *time.Time      `gorm:"column:fecha_entrega"`

	Items []ItemDTO `gorm:"foreignKey:OrdenID;references:OrdenID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one product line of an order.
type ItemDTO struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OrdenID   int64           `gorm:"column:orden_id;index"`
	ProductID int64           `gorm:"column:producto_id"`
	Name      string          `gorm:"column:nombre"`
	Price     decimal.Decimal `gorm:"column:precio;type:numeric(12,2)"`
	Discount  int             `gorm:"column:descuento"`
	Brand     string          `gorm:"column:marca"`
	Model     string          `gorm:"column:modelo"`
	Quantity  int             `gorm:"column:cantidad"`
	Image     string          `gorm:"column:imagen"`
}

// TableName overrides GORM's default naming to use "order_products".
func (ItemDTO) TableName() string {
	return "order_products"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := aggregate.Items()
	itemDTOs := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		itemDTOs = append(itemDTOs, ItemDTO{
			OrdenID:   aggregate.ID(),
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Price:     item.Price(),
			Discount:  item.Discount(),
			Brand:     item.Brand(),
			Model:     item.Model(),
			Quantity:  item.Quantity(),
			Image:     item.Image(),
		})
	}

	return OrderDTO{
		OrdenID:     aggregate.ID(),
		UserID:      aggregate.OwnerID(),
		Email:       aggregate.Email(),
		Address:     aggregate.Address(),
		FullName:    aggregate.FullName(),
		Status:      aggregate.Status().String(),
		Total:       aggregate.Total(),
		PaidAt:      aggregate.PaidAt(),
		DeliveredAt: aggregate.DeliveredAt(),
		Items:       itemDTOs,
	}
}

// toDomain reconstructs an order aggregate from its database representation.
func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewItem(
			itemDTO.ProductID,
			itemDTO.Name,
			itemDTO.Price,
			itemDTO.Discount,
			itemDTO.Brand,
			itemDTO.Model,
			itemDTO.Quantity,
			itemDTO.Image,
		)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		dto.OrdenID,
		dto.UserID,
		dto.Email,
		dto.Address,
		dto.FullName,
		status,
		dto.Total,
		items,
		dto.PaidAt,
		dto.DeliveredAt,
	)
}
