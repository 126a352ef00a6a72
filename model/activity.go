// model/activity.go
package model

import "time"

// ActivityDefinition is a catalog entry. Immutable while submissions against
// it are in flight; edited only through catalog administration.
type ActivityDefinition struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	Name              string    `json:"name" gorm:"not null"`
	Description       string    `json:"description" gorm:"type:text"`
	XPReward          int       `json:"xp_reward" gorm:"default:50"`
	CoinReward        int       `json:"coin_reward" gorm:"default:5"`
	AdventurePoints   int       `json:"adventure_points" gorm:"default:10"` // family goal contribution per approval
	FlawlessThreshold *int      `json:"flawless_threshold"`                 // score at or above doubles rewards
	SkillAreaID       *string   `json:"skill_area_id"`
	RequiresScore     bool      `json:"requires_score" gorm:"default:false"`
	RequiresApproval  bool      `json:"requires_approval" gorm:"default:true"`
	IsActive          bool      `json:"is_active" gorm:"default:true"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SubmittedActivity is one student submission. Earned amounts stay zero while
// pending and are fixed permanently once the status leaves pending; a
// submission is reviewed at most once.
type SubmittedActivity struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	AccountID    string     `json:"account_id" gorm:"not null;index"`
	DefinitionID string     `json:"definition_id" gorm:"not null"`
	Score        *int       `json:"score"`
	Note         string     `json:"note" gorm:"type:text"`
	Status       string     `json:"status" gorm:"default:pending;index"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	ReviewerID   *string    `json:"reviewer_id"`
	ActivityDate *time.Time `json:"activity_date"` // date credited to the streak, defaults to review day
	EarnedXP     int        `json:"earned_xp" gorm:"default:0"`
	EarnedCoins  int        `json:"earned_coins" gorm:"default:0"`
	Flawless     bool       `json:"flawless" gorm:"default:false"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relationship
	Definition ActivityDefinition `json:"definition" gorm:"foreignKey:DefinitionID"`
}
