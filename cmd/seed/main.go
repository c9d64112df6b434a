package main

import (
	"log"
	"os"

	"legal-research-be/internal/model"
	"legal-research-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDB(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Subscription Plans...")

	plans := []model.SubscriptionPlan{
		{Slug: "free", Name: "Free", MaxChatsPerDay: 20, MaxDocuments: 10, AllowWebSearch: false, ModelPreference: "baseline"},
		{Slug: "pro", Name: "Pro", MaxChatsPerDay: 200, MaxDocuments: 200, AllowWebSearch: true, ModelPreference: "standard"},
		{Slug: "enterprise", Name: "Enterprise", MaxChatsPerDay: -1, MaxDocuments: -1, AllowWebSearch: true, ModelPreference: "advanced"},
	}

	for _, p := range plans {
		var existing model.SubscriptionPlan
		if err := db.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			log.Printf("Plan '%s' already exists, skipping...", p.Slug)
			continue
		}

		if err := db.Create(&p).Error; err != nil {
			log.Printf("Error: Failed to seed plan '%s': %v", p.Slug, err)
			continue
		}
		log.Printf("Seeded plan '%s'", p.Slug)
	}

	log.Println("✅ Success: Plan seeding completed.")
}
