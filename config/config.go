package config

import (
	"log"
	"os"

	"dinehub-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "dinehub_super_secret_2024"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// AMQPURL enables the AMQP notification tee when non-empty.
func AMQPURL() string {
	return os.Getenv("AMQP_URL")
}

func InitDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open(getEnv("DB_PATH", "dinehub.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("✅ Database connected and migrated successfully")
}

// Migrate applies the schema; shared with the test suites so they run
// against the same model set.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.Restaurant{},
		&models.FoodType{},
		&models.MenuItem{},
		&models.Allergen{},
		&models.Image{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.FavoriteRestaurant{},
	)
}
