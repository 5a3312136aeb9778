// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name        string         `json:"name" gorm:"size:255;not null"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Price       float64        `json:"price" gorm:"type:decimal(14,2);not null"`
	OfferPrice  *float64       `json:"offer_price,omitempty" gorm:"type:decimal(14,2)"`
	Description string         `json:"description" gorm:"type:text"`
	Image       string         `json:"image" gorm:"size:512"`
	Gallery     pq.StringArray `json:"gallery,omitempty" gorm:"type:text[]"`
	CategoryID  *uuid.UUID     `json:"category_id" gorm:"type:uuid;index"`
	Featured    bool           `json:"featured" gorm:"default:false;index"`
	InStock     bool           `json:"in_stock" gorm:"default:true"`

	// Relationships
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// EffectivePrice is the price charged at checkout: the offer price when one
// is set and lower than the list price.
func (p *Product) EffectivePrice() float64 {
	if p.OfferPrice != nil && *p.OfferPrice > 0 && *p.OfferPrice < p.Price {
		return *p.OfferPrice
	}
	return p.Price
}
