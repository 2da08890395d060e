package models

import (
	"bytes"
	"encoding/json"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// NoCreator is the creator label used for orders without a creator
const NoCreator = "no user"

// OrderItem is a line of an order. Name and price are snapshots taken when the
// line was added; Total is expected to equal Quantity * Price.
type OrderItem struct {
	ProductID   string   `json:"productId" validate:"required"`
	ProductName string   `json:"productName"`
	Quantity    float64  `json:"quantity" validate:"gte=0"`
	Price       float64  `json:"price" validate:"gte=0"`
	Total       float64  `json:"total"`
	Product     *Product `json:"product,omitempty"`
}

// Order represents a customer order
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customerName"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status,omitempty"`
	CreatedAt     string      `json:"createdAt"`
	PickupAt      *string     `json:"pickupAt"`
	Note          string      `json:"note,omitempty"`
	CreatedByID   *string     `json:"createdById"`
	CreatedByName *string     `json:"createdByName"`
}

// Creator returns the label used to identify who created the order: the display
// name when known, otherwise the id, otherwise an empty string.
func (o Order) Creator() string {
	if o.CreatedByName != nil && *o.CreatedByName != "" {
		return *o.CreatedByName
	}
	if o.CreatedByID != nil && *o.CreatedByID != "" {
		return *o.CreatedByID
	}
	return ""
}

// Clone returns a deep copy of the order
func (o Order) Clone() Order {
	if o.Items != nil {
		items := make([]OrderItem, len(o.Items))
		for i, it := range o.Items {
			if it.Product != nil {
				p := *it.Product
				it.Product = &p
			}
			items[i] = it
		}
		o.Items = items
	}
	o.PickupAt = cloneString(o.PickupAt)
	o.CreatedByID = cloneString(o.CreatedByID)
	o.CreatedByName = cloneString(o.CreatedByName)
	return o
}

// Creator identifies the staff member on whose behalf an order is created
type Creator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrderDraft holds the caller supplied fields of a new order
type OrderDraft struct {
	CustomerName string      `json:"customerName" validate:"required"`
	Items        []OrderItem `json:"items" validate:"dive"`
	Total        float64     `json:"total" validate:"gte=0"`
	Status       OrderStatus `json:"status" validate:"omitempty,oneof=pending completed canceled"`
	PickupAt     *string     `json:"pickupAt"`
	Note         string      `json:"note"`
}

// OrderPatch is a partial order update. Nil fields are left untouched; PickupAt
// tracks whether the field was sent at all so an explicit null clears it.
type OrderPatch struct {
	CustomerName *string        `json:"customerName" validate:"omitempty,min=1"`
	Items        *[]OrderItem   `json:"items" validate:"omitempty,dive"`
	Total        *float64       `json:"total" validate:"omitempty,gte=0"`
	Status       *OrderStatus   `json:"status" validate:"omitempty,oneof=pending completed canceled"`
	PickupAt     OptionalString `json:"pickupAt,omitzero"`
	Note         *string        `json:"note"`
}

// OptionalString distinguishes an omitted JSON field from an explicit null
type OptionalString struct {
	Set   bool
	Value *string
}

// SetString returns a present optional holding v
func SetString(v string) OptionalString {
	return OptionalString{Set: true, Value: &v}
}

// SetNull returns a present optional holding null
func SetNull() OptionalString {
	return OptionalString{Set: true}
}

// UnmarshalJSON is only invoked when the key is present in the document
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// IsZero reports whether the field was omitted
func (o OptionalString) IsZero() bool {
	return !o.Set
}

// MarshalJSON writes the value or null. Pair it with omitzero so an omitted
// field stays omitted.
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// OrderFilter narrows an order listing. Every field is optional; an empty field
// places no constraint on its dimension.
type OrderFilter struct {
	CustomerName string `json:"customerName,omitempty" form:"customerName"`
	PickupFrom   string `json:"pickupFrom,omitempty" form:"pickupFrom"`
	PickupTo     string `json:"pickupTo,omitempty" form:"pickupTo"`
	CreatedFrom  string `json:"createdFrom,omitempty" form:"createdFrom"`
	CreatedTo    string `json:"createdTo,omitempty" form:"createdTo"`
	CreatedBy    string `json:"createdBy,omitempty" form:"createdBy"`
}

// IsZero reports whether the filter constrains nothing
func (f OrderFilter) IsZero() bool {
	return f == OrderFilter{}
}

// OrderGroup is a labelled bucket of orders
type OrderGroup struct {
	Key    string  `json:"key"`
	Orders []Order `json:"orders"`
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
