package model

import "time"

const (
	BillStatusDraft     = "draft"
	BillStatusCompleted = "completed"
	BillStatusCancelled = "cancelled"

	GSTTypeIGST = "igst"
	GSTTypeCGST = "cgst"

	DefaultGSTRate = 9.0
)

// BillProduct is the product snapshot stored with a bill line.
type BillProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

type BillItem struct {
	ID       string      `json:"id"`
	Product  BillProduct `json:"product"`
	Quantity float64     `json:"quantity"`
	Price    float64     `json:"price"`
	Total    float64     `json:"total"`
}

// Bill is a GST invoice owned by the principal that created it.
type Bill struct {
	ID              string     `json:"id"`
	BillNo          string     `json:"billNo"`
	UserID          string     `json:"userId"`
	UserPhone       string     `json:"userPhone"`
	InvoiceNumber   string     `json:"invoiceNumber"`
	Items           []BillItem `json:"items"`
	Subtotal        float64    `json:"subtotal"`
	TaxRate         float64    `json:"taxRate"`
	TaxAmount       float64    `json:"taxAmount"`
	GSTType         string     `json:"gstType"`
	CGSTRate        float64    `json:"cgstRate"`
	SGSTRate        float64    `json:"sgstRate"`
	IGSTRate        float64    `json:"igstRate"`
	CGSTAmount      float64    `json:"cgstAmount"`
	SGSTAmount      float64    `json:"sgstAmount"`
	IGSTAmount      float64    `json:"igstAmount"`
	DiscountPercent float64    `json:"discountPercent"`
	DiscountAmount  float64    `json:"discountAmount"`
	GrandTotal      float64    `json:"grandTotal"`
	CustomerName    string     `json:"customerName"`
	CustomerAddress string     `json:"customerAddress"`
	CustomerPhone   string     `json:"customerPhone"`
	Status          string     `json:"status"`
	OrderID         string     `json:"orderId"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// BillFields is the writable part of a bill. On create every field is
// taken as given; on update only non-nil fields are applied.
type BillFields struct {
	BillNo          *string    `json:"billNo,omitempty"`
	UserID          *string    `json:"userId,omitempty"`
	UserPhone       *string    `json:"userPhone,omitempty"`
	InvoiceNumber   *string    `json:"invoiceNumber,omitempty"`
	Items           []BillItem `json:"items,omitempty"`
	Subtotal        *float64   `json:"subtotal,omitempty"`
	TaxRate         *float64   `json:"taxRate,omitempty"`
	TaxAmount       *float64   `json:"taxAmount,omitempty"`
	GSTType         *string    `json:"gstType,omitempty" binding:"omitempty,oneof=igst cgst"`
	CGSTRate        *float64   `json:"cgstRate,omitempty"`
	SGSTRate        *float64   `json:"sgstRate,omitempty"`
	IGSTRate        *float64   `json:"igstRate,omitempty"`
	CGSTAmount      *float64   `json:"cgstAmount,omitempty"`
	SGSTAmount      *float64   `json:"sgstAmount,omitempty"`
	IGSTAmount      *float64   `json:"igstAmount,omitempty"`
	DiscountPercent *float64   `json:"discountPercent,omitempty"`
	DiscountAmount  *float64   `json:"discountAmount,omitempty"`
	GrandTotal      *float64   `json:"grandTotal,omitempty"`
	CustomerName    *string    `json:"customerName,omitempty"`
	CustomerAddress *string    `json:"customerAddress,omitempty"`
	CustomerPhone   *string    `json:"customerPhone,omitempty"`
	Status          *string    `json:"status,omitempty" binding:"omitempty,oneof=draft completed cancelled"`
	OrderID         *string    `json:"orderId,omitempty"`
}

// NewBill returns a bill carrying the schema defaults.
func NewBill() *Bill {
	return &Bill{
		Items:    []BillItem{},
		GSTType:  GSTTypeCGST,
		CGSTRate: DefaultGSTRate,
		SGSTRate: DefaultGSTRate,
		IGSTRate: DefaultGSTRate,
		Status:   BillStatusCompleted,
	}
}

// Apply copies every non-nil field onto b.
func (f BillFields) Apply(b *Bill) {
	setString(&b.BillNo, f.BillNo)
	setString(&b.UserID, f.UserID)
	setString(&b.UserPhone, f.UserPhone)
	setString(&b.InvoiceNumber, f.InvoiceNumber)
	if f.Items != nil {
		b.Items = f.Items
	}
	setFloat(&b.Subtotal, f.Subtotal)
	setFloat(&b.TaxRate, f.TaxRate)
	setFloat(&b.TaxAmount, f.TaxAmount)
	setString(&b.GSTType, f.GSTType)
	setFloat(&b.CGSTRate, f.CGSTRate)
	setFloat(&b.SGSTRate, f.SGSTRate)
	setFloat(&b.IGSTRate, f.IGSTRate)
	setFloat(&b.CGSTAmount, f.CGSTAmount)
	setFloat(&b.SGSTAmount, f.SGSTAmount)
	setFloat(&b.IGSTAmount, f.IGSTAmount)
	setFloat(&b.DiscountPercent, f.DiscountPercent)
	setFloat(&b.DiscountAmount, f.DiscountAmount)
	setFloat(&b.GrandTotal, f.GrandTotal)
	setString(&b.CustomerName, f.CustomerName)
	setString(&b.CustomerAddress, f.CustomerAddress)
	setString(&b.CustomerPhone, f.CustomerPhone)
	setString(&b.Status, f.Status)
	setString(&b.OrderID, f.OrderID)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setTime(dst **time.Time, v *time.Time) {
	if v != nil {
		t := *v
		*dst = &t
	}
}
