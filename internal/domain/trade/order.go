package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storemanager/backend/internal/domain/shared"
)

// statusPrefix is the internal storage prefix carried by every order status.
// API clients see statuses without it.
const statusPrefix = "wc-"

// OrderStatus represents the lifecycle state of an order, stored in the
// prefixed internal form.
type OrderStatus string

const (
	StatusPending    OrderStatus = "wc-pending"
	StatusProcessing OrderStatus = "wc-processing"
	StatusOnHold     OrderStatus = "wc-on-hold"
	StatusCompleted  OrderStatus = "wc-completed"
	StatusCancelled  OrderStatus = "wc-cancelled"
	StatusRefunded   OrderStatus = "wc-refunded"
	StatusFailed     OrderStatus = "wc-failed"
)

// OrderStatuses is the full set of valid statuses in registration order
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusOnHold,
	StatusCompleted,
	StatusCancelled,
	StatusRefunded,
	StatusFailed,
}

// SaleStatuses are the statuses counted by the sales report
var SaleStatuses = []OrderStatus{StatusProcessing, StatusCompleted, StatusOnHold}

// ConfirmedSaleStatuses are the statuses counted by the bestseller report
var ConfirmedSaleStatuses = []OrderStatus{StatusProcessing, StatusCompleted}

// NormalizeStatus maps external or internal status spellings to the internal
// form. The empty string maps to the empty status.
func NormalizeStatus(s string) OrderStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, statusPrefix) {
		s = statusPrefix + s
	}
	return OrderStatus(s)
}

// Unprefixed returns the API form of the status
func (s OrderStatus) Unprefixed() string {
	return strings.TrimPrefix(string(s), statusPrefix)
}

// Valid reports whether the status is part of the registered set
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ValidStatusNames lists the unprefixed names of all registered statuses
func ValidStatusNames() []string {
	names := make([]string, len(OrderStatuses))
	for i, s := range OrderStatuses {
		names[i] = s.Unprefixed()
	}
	return names
}

// Address holds a billing or shipping address block
type Address struct {
	FirstName string `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string `gorm:"type:varchar(100)" json:"last_name"`
	Company   string `gorm:"type:varchar(150)" json:"company"`
	Address1  string `gorm:"type:varchar(255)" json:"address_1"`
	Address2  string `gorm:"type:varchar(255)" json:"address_2"`
	City      string `gorm:"type:varchar(100)" json:"city"`
	State     string `gorm:"type:varchar(100)" json:"state"`
	Postcode  string `gorm:"type:varchar(20)" json:"postcode"`
	Country   string `gorm:"type:varchar(2)" json:"country"`
	Email     string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone     string `gorm:"type:varchar(30)" json:"phone,omitempty"`
}

// FullName joins first and last name, trimming when either is empty
func (a Address) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Order is the aggregate root for trade operations
type Order struct {
	shared.Entity
	OrderNumber         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status              OrderStatus     `gorm:"type:varchar(30);not null;default:'wc-pending';index"`
	Currency            string          `gorm:"type:varchar(3);not null"`
	SubtotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CustomerID          *int64          `gorm:"index"`
	Billing             Address         `gorm:"embedded;embeddedPrefix:billing_"`
	Shipping            Address         `gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod       string          `gorm:"type:varchar(100)"`
	PaymentMethodTitle  string          `gorm:"type:varchar(150)"`
	ShippingMethodTitle string          `gorm:"type:varchar(150)"`
	CustomerNote        string          `gorm:"type:text"`
	LineItems           []LineItem      `gorm:"foreignKey:OrderID"`
	Notes               []OrderNote     `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// LineItem is a purchased product line within an order
type LineItem struct {
	shared.Entity
	OrderID     int64           `gorm:"not null;index"`
	ProductID   int64           `gorm:"not null;index"`
	VariationID int64           `gorm:"not null;default:0"`
	Name        string          `gorm:"type:varchar(255);not null"`
	SKU         string          `gorm:"type:varchar(100)"`
	Quantity    int64           `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "order_items"
}

// SaleKey identifies what this line sold: the variation when one exists,
// otherwise the parent product.
func (li LineItem) SaleKey() int64 {
	if li.VariationID > 0 {
		return li.VariationID
	}
	return li.ProductID
}

// OrderNote is a comment attached to an order
type OrderNote struct {
	shared.Entity
	OrderID        int64  `gorm:"not null;index"`
	Content        string `gorm:"type:text;not null"`
	IsCustomerNote bool   `gorm:"not null;default:false"`
	Author         string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (OrderNote) TableName() string {
	return "order_notes"
}

// CustomerName returns the display name for the order's buyer
func (o *Order) CustomerName() string {
	if name := o.Billing.FullName(); name != "" {
		return name
	}
	return "Guest"
}

// IsGuest reports whether the order has no registered customer
func (o *Order) IsGuest() bool {
	return o.CustomerID == nil || *o.CustomerID == 0
}

// ChangeStatus transitions the order to the given status. Any registered
// status is reachable from any other; unknown statuses are rejected.
func (o *Order) ChangeStatus(next OrderStatus) error {
	if !next.Valid() {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("Invalid order status %q. Valid statuses: %s",
				next.Unprefixed(), strings.Join(ValidStatusNames(), ", ")))
	}
	o.Status = next
	o.Touch()
	return nil
}

// NewNote creates a note for the order. Content must already be sanitized
// and non-empty.
func (o *Order) NewNote(content string, isCustomerNote bool, author string) (*OrderNote, error) {
	if strings.TrimSpace(content) == "" {
		return nil, shared.ErrEmptyNote
	}
	now := time.Now()
	return &OrderNote{
		Entity:         shared.Entity{CreatedAt: now, UpdatedAt: now},
		OrderID:        o.ID,
		Content:        content,
		IsCustomerNote: isCustomerNote,
		Author:         author,
	}, nil
}

// CountsAsSale reports whether the order contributes to sales totals
func (o *Order) CountsAsSale() bool {
	for _, s := range SaleStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}
