package models

import "time"

type Banner struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255"`
	Image       string    `json:"image" gorm:"not null"`
	ObjectKey   string    `json:"-"`
	URL         string    `json:"url"`
	Order       int       `json:"order" gorm:"default:0"`
	Description string    `json:"description" gorm:"type:text"`
	BannerType  string    `json:"banner_type" gorm:"default:'banner'"` // banner, advertising
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BannerType string

const (
	BannerDefault     BannerType = "banner"
	BannerAdvertising BannerType = "advertising"
)

type Brand struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Image     string    `json:"image" gorm:"not null"`
	ObjectKey string    `json:"-"`
	URL       string    `json:"url"`
	Order     int       `json:"order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section is a coded, manually curated product collection shown on the
// storefront (e.g. "new_arrivals"). Only on-sale, in-stock products are
// attached to it.
type Section struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Code      string    `json:"code" gorm:"uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Products []Product `json:"products,omitempty" gorm:"many2many:section_products"`
}

type Contact struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	PhoneOrEmail string    `json:"phone_or_email" gorm:"size:255;not null"`
	Message      string    `json:"message" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
}
