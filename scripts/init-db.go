package main

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"shop_backend/internal/config"
	"shop_backend/internal/database"
	"shop_backend/internal/models"
	"shop_backend/internal/repository"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Force recreate all tables
	fmt.Println("Dropping existing tables...")
	err = db.Migrator().DropTable(
		"section_products",
		&models.OrderItem{},
		&models.Order{},
		&models.Gallery{},
		&models.ProductCharacteristic{},
		&models.Product{},
		&models.Category{},
		&models.Banner{},
		&models.Brand{},
		&models.Section{},
		&models.Contact{},
		&models.Branch{},
		&models.Settings{},
		&models.User{},
	)
	if err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	// Create tables with proper schema
	fmt.Println("Creating tables...")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Gallery{},
		&models.ProductCharacteristic{},
		&models.Banner{},
		&models.Brand{},
		&models.Section{},
		&models.Contact{},
		&models.Branch{},
		&models.Order{},
		&models.OrderItem{},
		&models.Settings{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed the settings singleton
	fmt.Println("Seeding settings...")
	settingsRepo := repository.NewSettingsRepository(db)
	defaultShipping, err := decimal.NewFromString(cfg.DefaultShippingCost)
	if err != nil {
		log.Fatal("Invalid default shipping cost:", err)
	}
	if err := settingsRepo.Ensure(defaultShipping); err != nil {
		log.Fatal("Failed to seed settings:", err)
	}

	// Create default staff user
	fmt.Println("Creating default staff user...")
	userRepo := repository.NewUserRepository(db)

	existing, err := userRepo.GetByPhone("+998901234567")
	if err != nil {
		log.Fatal("Failed to look up staff user:", err)
	}
	if existing != nil {
		fmt.Println("Staff user already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &models.User{
		Phone:        "+998901234567",
		FirstName:    "Admin",
		LastName:     "User",
		PasswordHash: string(hash),
		AuthStatus:   string(models.AuthCodeVerified),
		IsStaff:      true,
		IsActive:     true,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create staff user: %v", err)
	} else {
		fmt.Println("Staff user created successfully")
		fmt.Println("Phone: +998901234567")
		fmt.Println("Password: admin123")
	}

	// Seed a starter category tree
	fmt.Println("Seeding categories...")
	categoryRepo := repository.NewCategoryRepository(db)
	root := &models.Category{Title: "Electronics", Slug: "electronics", Top: true}
	if err := categoryRepo.Create(root); err != nil {
		log.Printf("Warning: Failed to seed root category: %v", err)
		return
	}
	child := &models.Category{Title: "Smartphones", Slug: "smartphones", ParentID: &root.ID}
	if err := categoryRepo.Create(child); err != nil {
		log.Printf("Warning: Failed to seed child category: %v", err)
		return
	}

	fmt.Println("Database initialized")
}
