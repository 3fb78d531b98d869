package model

import "time"

const DefaultProductUnit = "pcs"

// Product is a catalogue entry.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Unit      string    `json:"unit"`
	Category  string    `json:"category"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateProductRequest struct {
	Name     string   `json:"name" binding:"required"`
	Price    *float64 `json:"price" binding:"required"`
	Unit     string   `json:"unit"`
	Category string   `json:"category"`
	ImageURL string   `json:"imageUrl"`
}

type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Unit     *string  `json:"unit,omitempty"`
	Category *string  `json:"category,omitempty"`
	ImageURL *string  `json:"imageUrl,omitempty"`
}

func (r UpdateProductRequest) Apply(p *Product) {
	setString(&p.Name, r.Name)
	setFloat(&p.Price, r.Price)
	setString(&p.Unit, r.Unit)
	setString(&p.Category, r.Category)
	setString(&p.ImageURL, r.ImageURL)
}
