package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hearthquest/quest_api/model"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		// Fallback to individual environment variables
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "quest_api"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}
		timezone := os.Getenv("DB_TIMEZONE")
		if timezone == "" {
			timezone = "UTC"
		}

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	// Retry connection with exponential backoff
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					log.Println("Successfully connected to database")
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	models := []interface{}{
		&model.User{},
		&model.Account{},
		&model.ActivityDefinition{},
		&model.SubmittedActivity{},
		&model.SkillProgress{},
		&model.RecognitionNote{},
		&model.StreakBonus{},
		&model.FamilyGoal{},
		&model.GoalContribution{},
	}

	err = ds.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *PostgresService) Shutdown() {
}

func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "duplicate key value") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}

// ==================== USERS ====================

func (ds *PostgresService) CreateUser(user *model.User) error {
	return ds.db.Create(user).Error
}

func (ds *PostgresService) GetUserByID(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *PostgresService) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *PostgresService) UpdateLastLogin(userID string) error {
	return ds.db.Model(&model.User{}).Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

// ==================== ACCOUNTS ====================

func (ds *PostgresService) CreateAccount(account *model.Account) (*model.Account, error) {
	if account.ID == "" {
		id, _ := uuid.NewV7()
		account.ID = id.String()
	}
	if err := ds.db.Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (ds *PostgresService) GetAccount(accountID string) (*model.Account, error) {
	var account model.Account
	if err := ds.db.Where("id = ?", accountID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (ds *PostgresService) GetAccountByUserID(userID string) (*model.Account, error) {
	var account model.Account
	if err := ds.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (ds *PostgresService) GetAccountsByGuardian(guardianID string) ([]model.Account, error) {
	var accounts []model.Account
	err := ds.db.Where("guardian_id = ?", guardianID).Find(&accounts).Error
	return accounts, err
}

// ==================== CATALOG ====================

func (ds *PostgresService) CreateDefinition(def *model.ActivityDefinition) (*model.ActivityDefinition, error) {
	if def.ID == "" {
		id, _ := uuid.NewV7()
		def.ID = id.String()
	}
	if err := ds.db.Create(def).Error; err != nil {
		return nil, err
	}
	return def, nil
}

func (ds *PostgresService) GetDefinition(id string) (*model.ActivityDefinition, error) {
	var def model.ActivityDefinition
	if err := ds.db.Where("id = ?", id).First(&def).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (ds *PostgresService) GetActiveDefinitions() ([]model.ActivityDefinition, error) {
	var defs []model.ActivityDefinition
	err := ds.db.Where("is_active = ?", true).Order("name ASC").Find(&defs).Error
	return defs, err
}

func (ds *PostgresService) UpdateDefinition(def *model.ActivityDefinition) error {
	return ds.db.Save(def).Error
}

// ==================== SUBMITTED ACTIVITIES ====================

func (ds *PostgresService) CreateSubmittedActivity(activity *model.SubmittedActivity) (*model.SubmittedActivity, error) {
	if activity.ID == "" {
		id, _ := uuid.NewV7()
		activity.ID = id.String()
	}
	if err := ds.db.Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

func (ds *PostgresService) GetSubmittedActivity(id string) (*model.SubmittedActivity, error) {
	var activity model.SubmittedActivity
	if err := ds.db.Preload("Definition").Where("id = ?", id).First(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (ds *PostgresService) GetPendingActivitiesForAccounts(accountIDs []string) ([]model.SubmittedActivity, error) {
	var activities []model.SubmittedActivity
	err := ds.db.Preload("Definition").
		Where("account_id IN ? AND status = ?", accountIDs, "pending").
		Order("submitted_at ASC").
		Find(&activities).Error
	return activities, err
}

func (ds *PostgresService) GetActivitiesForAccount(accountID string, limit int) ([]model.SubmittedActivity, error) {
	var activities []model.SubmittedActivity
	err := ds.db.Preload("Definition").
		Where("account_id = ?", accountID).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// ==================== PROGRESS VIEWS ====================

func (ds *PostgresService) GetSkillProgress(accountID string) ([]model.SkillProgress, error) {
	var skills []model.SkillProgress
	err := ds.db.Where("account_id = ?", accountID).Order("skill_area_id ASC").Find(&skills).Error
	return skills, err
}

func (ds *PostgresService) GetRecentStreakBonuses(accountID string, limit int) ([]model.StreakBonus, error) {
	var bonuses []model.StreakBonus
	err := ds.db.Where("account_id = ?", accountID).
		Order("created_at DESC").Limit(limit).Find(&bonuses).Error
	return bonuses, err
}

func (ds *PostgresService) GetRecentRecognitionNotes(accountID string, limit int) ([]model.RecognitionNote, error) {
	var notes []model.RecognitionNote
	err := ds.db.Where("account_id = ?", accountID).
		Order("created_at DESC").Limit(limit).Find(&notes).Error
	return notes, err
}

// ==================== FAMILY GOALS ====================

func (ds *PostgresService) CreateFamilyGoal(goal *model.FamilyGoal) (*model.FamilyGoal, error) {
	if goal.ID == "" {
		id, _ := uuid.NewV7()
		goal.ID = id.String()
	}
	if err := ds.db.Create(goal).Error; err != nil {
		return nil, err
	}
	return goal, nil
}

func (ds *PostgresService) GetFamilyGoals(guardianID string) ([]model.FamilyGoal, error) {
	var goals []model.FamilyGoal
	err := ds.db.Where("guardian_id = ?", guardianID).Order("created_at DESC").Find(&goals).Error
	return goals, err
}

func (ds *PostgresService) GetGoalContributions(goalID string) ([]model.GoalContribution, error) {
	var contributions []model.GoalContribution
	err := ds.db.Where("goal_id = ?", goalID).Order("created_at DESC").Find(&contributions).Error
	return contributions, err
}

// RewardStore returns the store handle the approval engine operates on.
func (ds *PostgresService) RewardStore() RewardStore {
	return &gormRewardStore{db: ds.db}
}
