package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hearthquest/quest_api/model"
	"github.com/hearthquest/quest_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, catalog, admin")
		dsn      = flag.String("dsn", "", "Database DSN (overrides DATABASE_URL env var)")
	)
	flag.Parse()

	databaseURL := *dsn
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
		if databaseURL == "" {
			log.Fatal("DATABASE_URL is not set")
		}
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Account{},
		&model.ActivityDefinition{},
		&model.SubmittedActivity{},
		&model.SkillProgress{},
		&model.RecognitionNote{},
		&model.StreakBonus{},
		&model.FamilyGoal{},
		&model.GoalContribution{},
	); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "catalog":
		if err := mainSeeder.SeedCatalogOnly(); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	case "admin":
		if err := mainSeeder.SeedAdminOnly(); err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'catalog', or 'admin'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}
