package domain

import "math"

// DefaultRating is assigned to new products without a rating
const DefaultRating = 4.5

// PlaceholderImage is used when a product is created without images
const PlaceholderImage = "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=800"

// Product represents a product in the catalog
type Product struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Brand            string   `json:"brand"`
	Price            float64  `json:"price"`
	OriginalPrice    *float64 `json:"originalPrice,omitempty"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription"`
	Images           []string `json:"images"`
	InStock          bool     `json:"inStock"`
	Rating           float64  `json:"rating"`
	Reviews          int      `json:"reviews"`
}

// Thumbnail returns the canonical image of the product
func (p Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return PlaceholderImage
	}
	return p.Images[0]
}

// DiscountPercent returns the rounded discount against OriginalPrice, or 0
func (p Product) DiscountPercent() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= 0 {
		return 0
	}
	orig := *p.OriginalPrice
	return int(math.Round((orig - p.Price) / orig * 100))
}

// Clone returns a deep copy so snapshots never share slices or pointers
func (p Product) Clone() Product {
	c := p
	if p.Images != nil {
		c.Images = append([]string(nil), p.Images...)
	}
	if p.OriginalPrice != nil {
		orig := *p.OriginalPrice
		c.OriginalPrice = &orig
	}
	return c
}

// ProductInput carries the fields of a product being created.
// Nil optional fields receive catalog defaults.
type ProductInput struct {
	Name             string   `json:"name" validate:"required"`
	Category         string   `json:"category" validate:"required"`
	Brand            string   `json:"brand" validate:"required"`
	Price            float64  `json:"price" validate:"gte=0"`
	OriginalPrice    *float64 `json:"originalPrice,omitempty"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"shortDescription"`
	Images           []string `json:"images"`
	InStock          *bool    `json:"inStock,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	Reviews          *int     `json:"reviews,omitempty"`
}

// ProductUpdate holds a partial product edit. Nil fields are left untouched.
type ProductUpdate struct {
	Name             *string   `json:"name,omitempty"`
	Category         *string   `json:"category,omitempty"`
	Brand            *string   `json:"brand,omitempty"`
	Price            *float64  `json:"price,omitempty"`
	OriginalPrice    *float64  `json:"originalPrice,omitempty"`
	Description      *string   `json:"description,omitempty"`
	ShortDescription *string   `json:"shortDescription,omitempty"`
	Images           *[]string `json:"images,omitempty"`
	InStock          *bool     `json:"inStock,omitempty"`
	Rating           *float64  `json:"rating,omitempty"`
	Reviews          *int      `json:"reviews,omitempty"`

	// ClearOriginalPrice removes the original price, and with it the discount
	ClearOriginalPrice bool `json:"clearOriginalPrice,omitempty"`
}

// Validate rejects edits that would leave a product without images or that
// both set and clear the original price
func (upd ProductUpdate) Validate() error {
	if upd.Images != nil && len(*upd.Images) == 0 {
		return ErrNoImages
	}
	if upd.ClearOriginalPrice && upd.OriginalPrice != nil {
		return ErrOriginalPriceConflict
	}
	return nil
}

// Apply merges the non-nil fields of upd into the product
func (p *Product) Apply(upd ProductUpdate) {
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Brand != nil {
		p.Brand = *upd.Brand
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.ClearOriginalPrice {
		p.OriginalPrice = nil
	} else if upd.OriginalPrice != nil {
		orig := *upd.OriginalPrice
		p.OriginalPrice = &orig
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.ShortDescription != nil {
		p.ShortDescription = *upd.ShortDescription
	}
	if upd.Images != nil && len(*upd.Images) > 0 {
		p.Images = append([]string(nil), (*upd.Images)...)
	}
	if upd.InStock != nil {
		p.InStock = *upd.InStock
	}
	if upd.Rating != nil {
		p.Rating = *upd.Rating
	}
	if upd.Reviews != nil {
		p.Reviews = *upd.Reviews
	}
}
