package order

import (
	"errors"
	"fmt"
	"strings"

	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrItemIsNotConstructed is returned when an Item was not created through
// the NewItem constructor.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a product line captured at order creation. Lines are immutable:
// the catalog attributes (name, brand, model, image) are snapshotted so the
// order keeps rendering correctly after catalog changes.
type Item struct {
	productID int64
	name      string
	price     decimal.Decimal
	discount  int
	brand     string
	model     string
	quantity  int
	image     string

	isConstructed bool
}

// NewItem creates a validated product line.
//
// Rules: productID and quantity positive, price non-negative, discount in
// [0, 100], name required.
func NewItem(
	productID int64,
	name string,
	price decimal.Decimal,
	discount int,
	brand, model string,
	quantity int,
	image string,
) (Item, error) {
	if productID <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("producto_id",
			fmt.Errorf("%d is not a positive product id", productID))
	}
	if strings.TrimSpace(name) == "" {
		return Item{}, errs.NewValueIsRequiredError("nombre")
	}
	if price.IsNegative() {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("precio",
			fmt.Errorf("%s is negative", price))
	}
	if discount < 0 || discount > 100 {
		return Item{}, errs.NewValueIsOutOfRangeError("descuento", discount, 0, 100)
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("cantidad",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Item{
		productID:     productID,
		name:          name,
		price:         price,
		discount:      discount,
		brand:         brand,
		model:         model,
		quantity:      quantity,
		image:         image,
		isConstructed: true,
	}, nil
}

// Validate ensures the Item was created via NewItem.
func (i Item) Validate() error {
	if !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ProductID returns the catalog id of the product.
func (i Item) ProductID() int64 { return i.productID }

// Name returns the snapshotted product name.
func (i Item) Name() string { return i.name }

// Price returns the unit price at purchase time.
func (i Item) Price() decimal.Decimal { return i.price }

// Discount returns the discount percentage applied to the line.
func (i Item) Discount() int { return i.discount }

// Brand returns the snapshotted brand.
func (i Item) Brand() string { return i.brand }

// Model returns the snapshotted model.
func (i Item) Model() string { return i.model }

// Quantity returns the number of units ordered.
func (i Item) Quantity() int { return i.quantity }

// Image returns the snapshotted product image URL.
func (i Item) Image() string { return i.image }

// Subtotal returns price * quantity * (1 - discount/100).
func (i Item) Subtotal() decimal.Decimal {
	gross := i.price.Mul(decimal.NewFromInt(int64(i.quantity)))
	factor := decimal.NewFromInt(100 - int64(i.discount)).Div(decimal.NewFromInt(100))
	return gross.Mul(factor)
}
