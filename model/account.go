// model/account.go
package model

import "time"

// Account holds a student's persisted balances. XP, coins and streak fields
// are mutated only through the approval engine's atomic store operations;
// admin edits go through their own path.
type Account struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	UserID           string     `json:"user_id" gorm:"not null;uniqueIndex"`
	XP               int        `json:"xp" gorm:"default:0"`
	Coins            int        `json:"coins" gorm:"default:0"`
	Streak           int        `json:"streak" gorm:"default:0"`
	LongestStreak    int        `json:"longest_streak" gorm:"default:0"`
	LastActivityDate *time.Time `json:"last_activity_date"` // calendar date, time component zeroed
	AdventurePoints  int        `json:"adventure_points" gorm:"default:0"`
	GuardianID       *string    `json:"guardian_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// SkillProgress tracks the completed-activity counter per (account, skill
// area). The mastery tier is recomputed from the counter on every increment.
type SkillProgress struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	AccountID      string    `json:"account_id" gorm:"not null;uniqueIndex:idx_account_skill"`
	SkillAreaID    string    `json:"skill_area_id" gorm:"not null;uniqueIndex:idx_account_skill"`
	CompletedCount int       `json:"completed_count" gorm:"default:0"`
	MasteryTier    string    `json:"mastery_tier" gorm:"default:exploring"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RecognitionNote is a standalone encouragement note a reviewer attaches to
// an account during approval.
type RecognitionNote struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	AccountID  string    `json:"account_id" gorm:"not null;index"`
	ActivityID string    `json:"activity_id"`
	ReviewerID string    `json:"reviewer_id"`
	Note       string    `json:"note" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

// StreakBonus records a mystery-box roll granted when a streak crosses a
// 7-day milestone. The unique index makes the grant once-only: two approvals
// racing on the same pre-update streak snapshot both roll, but only one row
// lands.
type StreakBonus struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	AccountID   string    `json:"account_id" gorm:"not null;uniqueIndex:idx_bonus_grant"`
	StreakDay   int       `json:"streak_day" gorm:"uniqueIndex:idx_bonus_grant"`
	GrantedOn   time.Time `json:"granted_on" gorm:"uniqueIndex:idx_bonus_grant"` // calendar date credited
	Tier        string    `json:"tier"` // common, rare, legendary
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
