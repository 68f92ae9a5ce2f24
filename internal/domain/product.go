package domain

import "time"

type Attribute struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// Review is an embedded sub-resource of a Product, addressed by its own id.
type Review struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Brand       string      `json:"brand"`
	Price       float64     `json:"price"`
	SKU         string      `json:"sku"`
	Stock       int         `json:"stock"`
	Attributes  []Attribute `json:"attributes,omitempty"`
	Reviews     []Review    `json:"reviews"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type CreateProductRequest struct {
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Brand       string      `json:"brand" validate:"required"`
	Price       float64     `json:"price" validate:"required,gte=0"`
	SKU         string      `json:"sku" validate:"required"`
	Stock       int         `json:"stock" validate:"gte=0"`
	Attributes  []Attribute `json:"attributes" validate:"omitempty,dive"`
}

type ProductUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Brand       *string      `json:"brand,omitempty"`
	Price       *float64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	SKU         *string      `json:"sku,omitempty"`
	Stock       *int         `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Attributes  *[]Attribute `json:"attributes,omitempty"`
}

type CreateReviewRequest struct {
	User    string `json:"user" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

type ReviewUpdate struct {
	User    *string `json:"user,omitempty"`
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}

// ProductFilter narrows ListProducts. Zero values mean "no constraint".
type ProductFilter struct {
	Brand    string
	MinPrice float64
	MaxPrice float64
	Page     int
	Limit    int
	Sort     string
	Order    string
}
