package dto

import "time"

type AccountProgressResponse struct {
	AccountID        string                `json:"account_id"`
	XP               int                   `json:"xp"`
	Coins            int                   `json:"coins"`
	Level            int                   `json:"level"`
	LevelName        string                `json:"level_name"`
	ProgressPercent  int                   `json:"progress_percent"`
	XPToNextLevel    *int                  `json:"xp_to_next_level,omitempty"` // absent at the final level
	Streak           int                   `json:"streak"`
	LongestStreak    int                   `json:"longest_streak"`
	LastActivityDate *time.Time            `json:"last_activity_date,omitempty"`
	AdventurePoints  int                   `json:"adventure_points"`
	Skills           []SkillProgressInfo   `json:"skills"`
	RecentBonuses    []StreakBonusInfo     `json:"recent_bonuses"`
	RecentNotes      []RecognitionNoteInfo `json:"recent_notes"`
}

type SkillProgressInfo struct {
	SkillAreaID    string `json:"skill_area_id"`
	CompletedCount int    `json:"completed_count"`
	MasteryTier    string `json:"mastery_tier"`
}

type RecognitionNoteInfo struct {
	Note       string    `json:"note"`
	ReviewerID string    `json:"reviewer_id"`
	CreatedAt  time.Time `json:"created_at"`
}
