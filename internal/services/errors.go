package services

import "errors"

var (
	// auth
	ErrInvalidPhone       = errors.New("phone number must match +998XXXXXXXXX")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCode        = errors.New("confirmation code is invalid or expired")
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrPhoneNotVerified   = errors.New("phone number is not verified")
	ErrInvalidToken       = errors.New("invalid token")

	// catalog
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryInUse     = errors.New("category still has products")
	ErrRootCategory      = errors.New("products cannot be attached to a root category")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductReferenced = errors.New("product is referenced by order items")
	ErrGalleryNotFound   = errors.New("gallery image not found")

	// content
	ErrBannerNotFound  = errors.New("banner not found")
	ErrBrandNotFound   = errors.New("brand not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrBranchNotFound  = errors.New("branch not found")

	// orders
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidQuantity   = errors.New("quantity must be > 0")
	ErrSingleUnitOnly    = errors.New("product can only be sold one unit per order")
	ErrProductNotOnSale  = errors.New("product is not on sale")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderCancelled    = errors.New("order is cancelled")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInvalidOrderType  = errors.New("invalid order type")
	ErrInvalidProvider   = errors.New("invalid payment provider")

	// settings
	ErrSettingsMissing = errors.New("settings row is missing")
)
