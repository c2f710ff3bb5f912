package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending OrderStatus = "Pendiente"
	// StatusPreparing is set by the shop; nothing in this service produces it.
	StatusPreparing OrderStatus = "Preparando"
	StatusCancelled OrderStatus = "Cancelado"
)

// Active reports whether the order still awaits pickup.
func (s OrderStatus) Active() bool {
	return s == StatusPending || s == StatusPreparing
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Efectivo"
	PaymentTransfer PaymentMethod = "Transferencia"
)

// ParsePaymentMethod defaults to cash for an empty value.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "efectivo", "cash":
		return PaymentCash, true
	case "transferencia", "transfer":
		return PaymentTransfer, true
	}
	return "", false
}

type OrderDetails struct {
	CustomerName  string        `json:"customerName"`
	Phone         string        `json:"phone"`
	PickupTime    string        `json:"pickupTime"`
	Notes         string        `json:"notes,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// Order belongs to the browser session that placed it.
type Order struct {
	ID        string       `json:"id"`
	SessionID string       `json:"sessionId,omitempty"`
	Details   OrderDetails `json:"details"`
	Items     []LineItem   `json:"items"`
	Total     int64        `json:"total"`
	Timestamp int64        `json:"timestamp"`
	Status    OrderStatus  `json:"status"`
}

// ShortID is the suffix shown to customers and quoted in chat messages.
func (o Order) ShortID() string {
	if len(o.ID) <= 6 {
		return o.ID
	}
	return o.ID[len(o.ID)-6:]
}

func (o Order) CreatedAt() time.Time {
	return time.UnixMilli(o.Timestamp)
}
