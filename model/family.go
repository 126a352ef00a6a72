// model/family.go
package model

import "time"

// FamilyGoal is the adventure-point target shared across a guardian's linked
// accounts. Once achieved, PointsCurrent is frozen; a new goal must be
// created for further contributions.
type FamilyGoal struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	GuardianID    string     `json:"guardian_id" gorm:"not null;index"`
	Title         string     `json:"title" gorm:"not null"`
	Description   string     `json:"description" gorm:"type:text"`
	PointsTarget  int        `json:"points_target" gorm:"not null"`
	PointsCurrent int        `json:"points_current" gorm:"default:0"`
	Status        string     `json:"status" gorm:"default:active;index"`
	AchievedAt    *time.Time `json:"achieved_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// GoalContribution is one approved activity's contribution to a goal.
type GoalContribution struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	GoalID     string    `json:"goal_id" gorm:"not null;index"`
	AccountID  string    `json:"account_id" gorm:"not null"`
	ActivityID string    `json:"activity_id" gorm:"not null"`
	Points     int       `json:"points" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}
