package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder. This ensures all orders are
	// properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// MaxReasonLength bounds the free-text reason recorded with a status change.
const MaxReasonLength = 500

// Order represents a customer order. It is the aggregate root that manages
// the order lifecycle from payment through processing and shipping to
// delivery or cancellation.
//
// Order follows these invariants:
//   - ownerID is immutable once set
//   - status is always one of the five valid states and changes only
//     through the transition table
//   - deliveredAt is non-nil if and only if the order has reached the
//     delivered state at least once; it is never cleared
//   - total equals the sum of the item subtotals captured at creation
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods.
type Order struct {
	// id is assigned by the persistence layer on creation (0 until then)
	id int64

	// ownerID identifies the user the order belongs to
	ownerID string

	email    string
	address  string
	fullName string

	// status is the current state in the order lifecycle
	status Status

	total decimal.Decimal
	items []Item

	// paidAt is set once at creation
	paidAt time.Time

	// deliveredAt is set only on the transition into Delivered
	deliveredAt *time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Pending status with the payment timestamp
// set to paidAt. The total is computed from the item subtotals.
//
// Parameters:
//   - ownerID: owner of the order (required)
//   - email: contact address for notifications (required)
//   - address: delivery address (required)
//   - fullName: recipient name (required)
//   - items: at least one product line
//   - paidAt: payment timestamp recorded at creation
//
// Returns a validation error if any required field is missing or any item
// is invalid.
func NewOrder(ownerID, email, address, fullName string, items []Item, paidAt time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		paidAt:        paidAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setOwnerID(ownerID),
		o.setEmail(email),
		o.setAddress(address),
		o.setFullName(fullName),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	o.total = total

	return o, nil
}

// RestoreOrder reconstructs an Order from persistence without re-deriving
// the total. The stored status must be valid; the deliveredAt invariant is
// checked against the history the row implies (a delivered order must carry
// a delivery timestamp).
func RestoreOrder(
	id int64,
	ownerID, email, address, fullName string,
	status Status,
	total decimal.Decimal,
	items []Item,
	paidAt time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	if id <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not a positive order id", id))
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if status == Delivered && deliveredAt == nil {
		return nil, errs.NewValueIsRequiredError("deliveredAt")
	}

	o := &Order{
		id:            id,
		status:        status,
		total:         total,
		paidAt:        paidAt,
		deliveredAt:   deliveredAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setOwnerID(ownerID),
		o.setEmail(email),
		o.setAddress(address),
		o.setFullName(fullName),
	); err != nil {
		return nil, err
	}
	o.items = items

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

// ID returns the order identifier (0 for not-yet-persisted orders).
func (o *Order) ID() int64 {
	return o.id
}

// SetID assigns the persistence-generated identifier. It can be set once.
func (o *Order) SetID(id int64) error {
	if o.id != 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("order already has id %d", o.id))
	}
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("%d is not a positive order id", id))
	}
	o.id = id
	return nil
}

// OwnerID returns the id of the user the order belongs to.
func (o *Order) OwnerID() string {
	return o.ownerID
}

// Email returns the contact email captured at creation.
func (o *Order) Email() string {
	return o.email
}

// Address returns the delivery address.
func (o *Order) Address() string {
	return o.address
}

// FullName returns the recipient name.
func (o *Order) FullName() string {
	return o.fullName
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Total returns the order total.
func (o *Order) Total() decimal.Decimal {
	return o.total
}

// Items returns the product lines captured at creation.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// PaidAt returns the payment timestamp.
func (o *Order) PaidAt() time.Time {
	return o.paidAt
}

// DeliveredAt returns the delivery timestamp, or nil if the order has never
// reached the delivered state.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// ChangeAddress updates the delivery address. Address edits are allowed in
// any non-terminal state.
func (o *Order) ChangeAddress(address string) error {
	if o.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("direccion",
			fmt.Errorf("order in terminal state '%s' cannot be updated", o.status))
	}
	return o.setAddress(address)
}

// TransitionTo moves the order into the requested state.
//
// The transition must be permitted by the table; otherwise an
// InvalidTransitionError carrying the current state and its legal successor
// set is returned and the order is unchanged.
//
// When the order enters Delivered, deliveredAt is set to the caller-supplied
// timestamp if present, else to now. deliveredAt is never cleared by later
// transitions (there are none out of Delivered).
func (o *Order) TransitionTo(requested Status, deliveredAt *time.Time, now time.Time) error {
	next, err := o.status.TransitionTo(requested)
	if err != nil {
		return err
	}

	o.status = next
	if next == Delivered && o.deliveredAt == nil {
		ts := now
		if deliveredAt != nil {
			ts = *deliveredAt
		}
		o.deliveredAt = &ts
	}
	return nil
}

// Cancel moves the order into Cancelled. It is a narrow wrapper over
// TransitionTo used by the owner-facing cancellation flow; the broader
// transition operation remains admin-only at the application layer.
func (o *Order) Cancel(now time.Time) error {
	return o.TransitionTo(Cancelled, nil, now)
}

func (o *Order) setOwnerID(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return errs.NewValueIsRequiredError("user_id")
	}
	o.ownerID = ownerID
	return nil
}

func (o *Order) setEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errs.NewValueIsRequiredError("correo_usuario")
	}
	o.email = email
	return nil
}

func (o *Order) setAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("direccion")
	}
	o.address = address
	return nil
}

func (o *Order) setFullName(fullName string) error {
	if strings.TrimSpace(fullName) == "" {
		return errs.NewValueIsRequiredError("nombre_completo")
	}
	o.fullName = fullName
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("productos")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

// ValidateReason checks the free-text reason attached to a status change.
// When required is true an empty reason is rejected; any reason longer than
// MaxReasonLength is rejected.
func ValidateReason(reason string, required bool) error {
	if required && strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("motivo")
	}
	if len(reason) > MaxReasonLength {
		return errs.NewValueIsOutOfRangeError("motivo", len(reason), 1, MaxReasonLength)
	}
	return nil
}
