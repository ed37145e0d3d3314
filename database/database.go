package database

import (
	"fmt"
	"log"
	"os"

	"connections-app/internal/domain/connections"
	"connections-app/internal/domain/reviews"
	"connections-app/internal/domain/users"
	"connections-app/internal/domain/works"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}

// Migrate runs AutoMigrate for every domain model. Split out so tests can
// run it against their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&users.RoleTransfer{},

		&works.Work{},
		&works.WorkLink{},

		&connections.Connection{},
		&connections.ConnectionSubmission{},
		&connections.ConnectionComment{},

		&reviews.Review{},
		&reviews.Like{},
	)
}
