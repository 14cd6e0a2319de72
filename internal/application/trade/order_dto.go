package trade

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storemanager/backend/internal/domain/trade"
)

// AddressDTO is the API representation of a billing or shipping block
type AddressDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// LineItemDTO is one purchased line within an order
type LineItemDTO struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	VariationID int64  `json:"variation_id"`
	Name        string `json:"name"`
	SKU         string `json:"sku"`
	Quantity    int64  `json:"quantity"`
	Subtotal    string `json:"subtotal"`
	Total       string `json:"total"`
}

// OrderNoteDTO is a comment attached to an order
type OrderNoteDTO struct {
	ID             int64  `json:"id"`
	Author         string `json:"author"`
	DateCreated    string `json:"date_created"`
	DateCreatedGMT string `json:"date_created_gmt"`
	Note           string `json:"note"`
	CustomerNote   bool   `json:"customer_note"`
}

// OrderDTO is the API representation of an order
type OrderDTO struct {
	ID                  int64          `json:"id"`
	OrderNumber         string         `json:"number"`
	Status              string         `json:"status"`
	Currency            string         `json:"currency"`
	DateCreated         string         `json:"date_created"`
	DateCreatedGMT      string         `json:"date_created_gmt"`
	DateModified        string         `json:"date_modified"`
	DateModifiedGMT     string         `json:"date_modified_gmt"`
	CustomerID          int64          `json:"customer_id"`
	CustomerName        string         `json:"customer_name"`
	Subtotal            string         `json:"subtotal"`
	DiscountTotal       string         `json:"discount_total"`
	ShippingTotal       string         `json:"shipping_total"`
	TotalTax            string         `json:"total_tax"`
	Total               string         `json:"total"`
	Billing             AddressDTO     `json:"billing"`
	Shipping            AddressDTO     `json:"shipping"`
	PaymentMethod       string         `json:"payment_method"`
	PaymentMethodTitle  string         `json:"payment_method_title"`
	ShippingMethodTitle string         `json:"shipping_method_title"`
	CustomerNote        string         `json:"customer_note"`
	LineItems           []LineItemDTO  `json:"line_items"`
	Notes               []OrderNoteDTO `json:"notes,omitempty"`
}

// ListOrdersQuery is the normalized collection query for orders
type ListOrdersQuery struct {
	Page       int
	PerPage    int
	Search     string
	Order      string
	OrderBy    string
	Status     string // unprefixed status name, or "any"
	CustomerID int64
	DateAfter  *time.Time
	DateBefore *time.Time
}

// UpdateOrderStatusRequest changes an order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// AddOrderNoteRequest attaches a note to an order
type AddOrderNoteRequest struct {
	Note         string `json:"note" binding:"required"`
	CustomerNote bool   `json:"customer_note"`
	Author       string `json:"-"`
}

func money(d decimal.Decimal) string {
	return d.String()
}

func stamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

func toAddressDTO(a trade.Address) AddressDTO {
	return AddressDTO{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		State:     a.State,
		Postcode:  a.Postcode,
		Country:   a.Country,
		Email:     a.Email,
		Phone:     a.Phone,
	}
}

func toNoteDTO(n *trade.OrderNote, loc *time.Location) OrderNoteDTO {
	return OrderNoteDTO{
		ID:             n.ID,
		Author:         n.Author,
		DateCreated:    stamp(n.CreatedAt.In(loc)),
		DateCreatedGMT: stamp(n.CreatedAt.UTC()),
		Note:           n.Content,
		CustomerNote:   n.IsCustomerNote,
	}
}

func (s *OrderService) toOrderDTO(o *trade.Order, includeNotes bool) *OrderDTO {
	items := make([]LineItemDTO, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		items = append(items, LineItemDTO{
			ID:          li.ID,
			ProductID:   li.ProductID,
			VariationID: li.VariationID,
			Name:        li.Name,
			SKU:         li.SKU,
			Quantity:    li.Quantity,
			Subtotal:    money(li.Subtotal),
			Total:       money(li.Total),
		})
	}

	var notes []OrderNoteDTO
	if includeNotes {
		notes = make([]OrderNoteDTO, 0, len(o.Notes))
		for i := range o.Notes {
			notes = append(notes, toNoteDTO(&o.Notes[i], s.location))
		}
	}

	customerID := int64(0)
	if o.CustomerID != nil {
		customerID = *o.CustomerID
	}

	return &OrderDTO{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		Status:              o.Status.Unprefixed(),
		Currency:            o.Currency,
		DateCreated:         stamp(o.CreatedAt.In(s.location)),
		DateCreatedGMT:      stamp(o.CreatedAt.UTC()),
		DateModified:        stamp(o.UpdatedAt.In(s.location)),
		DateModifiedGMT:     stamp(o.UpdatedAt.UTC()),
		CustomerID:          customerID,
		CustomerName:        o.CustomerName(),
		Subtotal:            money(o.SubtotalAmount),
		DiscountTotal:       money(o.DiscountTotal),
		ShippingTotal:       money(o.ShippingTotal),
		TotalTax:            money(o.TaxTotal),
		Total:               money(o.TotalAmount),
		Billing:             toAddressDTO(o.Billing),
		Shipping:            toAddressDTO(o.Shipping),
		PaymentMethod:       o.PaymentMethod,
		PaymentMethodTitle:  o.PaymentMethodTitle,
		ShippingMethodTitle: o.ShippingMethodTitle,
		CustomerNote:        o.CustomerNote,
		LineItems:           items,
		Notes:               notes,
	}
}
