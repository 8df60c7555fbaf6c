package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Title    string `json:"title" gorm:"size:255;not null"`
	Slug     string `json:"slug" gorm:"uniqueIndex;not null"`
	Image    string `json:"image"`
	ImageKey string `json:"-"`
	Icon     string `json:"icon"`
	IconKey  string `json:"-"`
	Order    int    `json:"order" gorm:"default:0"`
	Top      bool   `json:"top" gorm:"default:true"`
	ParentID *uint  `json:"parent_id"`

	Parent   *Category  `json:"-" gorm:"foreignKey:ParentID"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

// IsRoot reports whether the category is a top-level node. Products may only
// be attached to non-root categories.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

type Product struct {
	ID          uint                `json:"id" gorm:"primaryKey"`
	Title       string              `json:"title" gorm:"size:255;not null;index"`
	Slug        string              `json:"slug" gorm:"uniqueIndex;not null"`
	Price       decimal.Decimal     `json:"price" gorm:"type:decimal(10,2);not null"`
	PriceUZS    decimal.NullDecimal `json:"price_uzs" gorm:"type:decimal(14,2)"`
	Discount    int                 `json:"discount" gorm:"default:0"` // percent
	Description string              `json:"description" gorm:"type:text"`
	Body        string              `json:"body" gorm:"type:text"`
	VideoURL    string              `json:"video_url"`
	ViewCount   int                 `json:"view_count" gorm:"default:0"`
	Quantity    int                 `json:"quantity" gorm:"not null;default:0"`
	OnSale      bool                `json:"on_sale" gorm:"default:true"`
	IsMany      bool                `json:"is_many" gorm:"default:true"`
	CategoryID  uint                `json:"category_id" gorm:"not null"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	Category        *Category               `json:"category,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Galleries       []Gallery               `json:"galleries,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Characteristics []ProductCharacteristic `json:"characteristics,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// DiscountedPrice is the unit price after the percentage discount, rounded
// to 2 fractional digits like the stored price columns.
func (p *Product) DiscountedPrice() decimal.Decimal {
	if p.Discount <= 0 {
		return p.Price
	}
	factor := decimal.NewFromInt(100 - int64(p.Discount)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor).Round(2)
}

type Gallery struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	Image     string    `json:"image" gorm:"not null"` // public URL
	ObjectKey string    `json:"-"`                     // storage key, used for removal
	CreatedAt time.Time `json:"created_at"`
}

type ProductCharacteristic struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"not null;index"`
	Title     string `json:"title" gorm:"size:255;not null"`
	Value     string `json:"value" gorm:"size:255;not null"`
}
