package dto

import "time"

type SubmitActivityRequest struct {
	DefinitionID string `json:"definition_id" validate:"required"`
	Score        *int   `json:"score" validate:"omitempty,gte=0,max=100"`
	Note         string `json:"note" validate:"max=500"`
}

type ApproveActivityRequest struct {
	RecognitionNote string     `json:"recognition_note" validate:"max=500"`
	ActivityDate    *time.Time `json:"activity_date"` // optional override, never in the future
}

type RejectActivityRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type ActivityResponse struct {
	ID           string     `json:"id"`
	AccountID    string     `json:"account_id"`
	DefinitionID string     `json:"definition_id"`
	Name         string     `json:"name"`
	Score        *int       `json:"score,omitempty"`
	Note         string     `json:"note,omitempty"`
	Status       string     `json:"status"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	EarnedXP     int        `json:"earned_xp"`
	EarnedCoins  int        `json:"earned_coins"`
	Flawless     bool       `json:"flawless"`
}

// ApprovalResponse reports everything one approval changed.
type ApprovalResponse struct {
	Activity      ActivityResponse  `json:"activity"`
	NewXP         int               `json:"new_xp"`
	NewCoins      int               `json:"new_coins"`
	NewLevel      int               `json:"new_level"`
	LeveledUp     bool              `json:"leveled_up"`
	Streak        int               `json:"streak"`
	LongestStreak int               `json:"longest_streak"`
	StreakBonus   *StreakBonusInfo  `json:"streak_bonus,omitempty"`
	GoalProgress  *GoalProgressInfo `json:"goal_progress,omitempty"`
}

type StreakBonusInfo struct {
	StreakDay   int    `json:"streak_day"`
	Tier        string `json:"tier"`
	Description string `json:"description"`
}

type GoalProgressInfo struct {
	GoalID        string `json:"goal_id"`
	PointsCurrent int    `json:"points_current"`
	PointsTarget  int    `json:"points_target"`
	Achieved      bool   `json:"achieved"`
}

type DefinitionRequest struct {
	Name              string  `json:"name" validate:"required,max=120"`
	Description       string  `json:"description" validate:"max=1000"`
	XPReward          int     `json:"xp_reward" validate:"gte=0"`
	CoinReward        int     `json:"coin_reward" validate:"gte=0"`
	AdventurePoints   int     `json:"adventure_points" validate:"gte=0"`
	FlawlessThreshold *int    `json:"flawless_threshold" validate:"omitempty,gte=0,max=100"`
	SkillAreaID       *string `json:"skill_area_id"`
	RequiresScore     bool    `json:"requires_score"`
	RequiresApproval  bool    `json:"requires_approval"`
}

type DefinitionResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	XPReward          int     `json:"xp_reward"`
	CoinReward        int     `json:"coin_reward"`
	AdventurePoints   int     `json:"adventure_points"`
	FlawlessThreshold *int    `json:"flawless_threshold,omitempty"`
	SkillAreaID       *string `json:"skill_area_id,omitempty"`
	RequiresScore     bool    `json:"requires_score"`
	RequiresApproval  bool    `json:"requires_approval"`
	IsActive          bool    `json:"is_active"`
}
