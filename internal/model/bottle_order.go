package model

import "time"

const BottleOrderStatusPending = "pending"

// BottleOrderStatuses lists every status the order workflow has used,
// including the capitalised values older clients still send.
var BottleOrderStatuses = []string{
	"pending", "accepted", "ready_to_dispatch", "completed", "delivered", "returned", "cancelled",
	"Pending", "Processing", "Delivered", "Complete", "Cancelled",
}

type BottleOrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Category    string  `json:"category"`
	Gauge       string  `json:"gauge"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
	Total       float64 `json:"total"`
}

// BottleOrder is a deposit-bottle order owned by the principal that placed it.
type BottleOrder struct {
	ID              string            `json:"id"`
	OrderNo         string            `json:"orderNo"`
	UserID          string            `json:"userId"`
	UserPhone       string            `json:"userPhone"`
	BillID          string            `json:"billId"`
	CustomerName    string            `json:"customerName"`
	CustomerPhone   string            `json:"customerPhone"`
	CustomerAddress string            `json:"customerAddress"`
	Items           []BottleOrderItem `json:"items"`
	BottleType      string            `json:"bottleType"`
	Quantity        float64           `json:"quantity"`
	DepositAmount   float64           `json:"depositAmount"`
	Status          string            `json:"status"`
	OrderDate       time.Time         `json:"orderDate"`
	DeliveryDate    *time.Time        `json:"deliveryDate"`
	ReturnDate      *time.Time        `json:"returnDate"`
	Notes           string            `json:"notes"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type BottleOrderFields struct {
	OrderNo         *string           `json:"orderNo,omitempty"`
	UserID          *string           `json:"userId,omitempty"`
	UserPhone       *string           `json:"userPhone,omitempty"`
	BillID          *string           `json:"billId,omitempty"`
	CustomerName    *string           `json:"customerName,omitempty"`
	CustomerPhone   *string           `json:"customerPhone,omitempty"`
	CustomerAddress *string           `json:"customerAddress,omitempty"`
	Items           []BottleOrderItem `json:"items,omitempty"`
	BottleType      *string           `json:"bottleType,omitempty"`
	Quantity        *float64          `json:"quantity,omitempty"`
	DepositAmount   *float64          `json:"depositAmount,omitempty"`
	Status          *string           `json:"status,omitempty" binding:"omitempty,oneof=pending accepted ready_to_dispatch completed delivered returned cancelled Pending Processing Delivered Complete Cancelled"`
	OrderDate       *time.Time        `json:"orderDate,omitempty"`
	DeliveryDate    *time.Time        `json:"deliveryDate,omitempty"`
	ReturnDate      *time.Time        `json:"returnDate,omitempty"`
	Notes           *string           `json:"notes,omitempty"`
}

// NewBottleOrder returns an order carrying the schema defaults.
func NewBottleOrder(now time.Time) *BottleOrder {
	return &BottleOrder{
		Items:     []BottleOrderItem{},
		Status:    BottleOrderStatusPending,
		OrderDate: now,
	}
}

func (f BottleOrderFields) Apply(o *BottleOrder) {
	setString(&o.OrderNo, f.OrderNo)
	setString(&o.UserID, f.UserID)
	setString(&o.UserPhone, f.UserPhone)
	setString(&o.BillID, f.BillID)
	setString(&o.CustomerName, f.CustomerName)
	setString(&o.CustomerPhone, f.CustomerPhone)
	setString(&o.CustomerAddress, f.CustomerAddress)
	if f.Items != nil {
		o.Items = f.Items
	}
	setString(&o.BottleType, f.BottleType)
	setFloat(&o.Quantity, f.Quantity)
	setFloat(&o.DepositAmount, f.DepositAmount)
	setString(&o.Status, f.Status)
	if f.OrderDate != nil {
		o.OrderDate = *f.OrderDate
	}
	setTime(&o.DeliveryDate, f.DeliveryDate)
	setTime(&o.ReturnDate, f.ReturnDate)
	setString(&o.Notes, f.Notes)
}
