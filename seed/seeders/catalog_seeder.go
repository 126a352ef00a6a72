package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/hearthquest/quest_api/model"
)

// CatalogSeeder handles seeding the activity catalog
type CatalogSeeder struct {
	db *gorm.DB
}

func NewCatalogSeeder(db *gorm.DB) *CatalogSeeder {
	return &CatalogSeeder{db: db}
}

// SeedDefinitions seeds the starter activity catalog. Existing definitions
// are left untouched so reruns are safe.
func (s *CatalogSeeder) SeedDefinitions() error {
	definitions := s.getStarterCatalog()

	for _, definition := range definitions {
		var existing model.ActivityDefinition
		if err := s.db.Where("id = ?", definition.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&definition).Error; err != nil {
					log.Printf("Error creating definition %s: %v", definition.Name, err)
					return err
				}
				log.Printf("Created definition: %s", definition.Name)
			} else {
				log.Printf("Error checking definition %s: %v", definition.Name, err)
				return err
			}
		} else {
			log.Printf("Definition %s already exists, skipping", definition.Name)
		}
	}

	log.Println("Catalog seeding completed successfully")
	return nil
}

func (s *CatalogSeeder) getStarterCatalog() []model.ActivityDefinition {
	now := time.Now()

	definitions := []model.ActivityDefinition{
		{
			ID:               "def_make_bed",
			Name:             "Make Your Bed",
			Description:      "Tidy the bed before leaving for school",
			XPReward:         20,
			CoinReward:       2,
			AdventurePoints:  5,
			RequiresApproval: true,
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:               "def_dishes",
			Name:             "Wash the Dishes",
			Description:      "Clear and wash everything after dinner",
			XPReward:         40,
			CoinReward:       4,
			AdventurePoints:  10,
			RequiresApproval: true,
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:                "def_math_drill",
			Name:              "Math Practice Drill",
			Description:       "Complete a 20 question arithmetic drill",
			XPReward:          60,
			CoinReward:        6,
			AdventurePoints:   15,
			FlawlessThreshold: intPtr(90),
			SkillAreaID:       strPtr("skill_math"),
			RequiresScore:     true,
			RequiresApproval:  true,
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:               "def_reading",
			Name:             "Reading Session",
			Description:      "Read for at least twenty minutes",
			XPReward:         50,
			CoinReward:       5,
			AdventurePoints:  10,
			SkillAreaID:      strPtr("skill_reading"),
			RequiresApproval: true,
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
		{
			ID:                "def_spelling_quiz",
			Name:              "Spelling Quiz",
			Description:       "Take the weekly spelling quiz",
			XPReward:          60,
			CoinReward:        6,
			AdventurePoints:   15,
			FlawlessThreshold: intPtr(95),
			SkillAreaID:       strPtr("skill_spelling"),
			RequiresScore:     true,
			RequiresApproval:  true,
			IsActive:          true,
			CreatedAt:         now,
			UpdatedAt:         now,
		},
		{
			ID:               "def_daily_checkin",
			Name:             "Daily Check-in",
			Description:      "Open the app and plan the day",
			XPReward:         10,
			CoinReward:       1,
			AdventurePoints:  2,
			RequiresApproval: false,
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}

	return definitions
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
