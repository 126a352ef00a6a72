package dto

import "time"

type CreateGoalRequest struct {
	Title        string `json:"title" validate:"required,max=120"`
	Description  string `json:"description" validate:"max=1000"`
	PointsTarget int    `json:"points_target" validate:"required,gt=0"`
}

type GoalResponse struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	PointsTarget  int                `json:"points_target"`
	PointsCurrent int                `json:"points_current"`
	Status        string             `json:"status"`
	AchievedAt    *time.Time         `json:"achieved_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Contributions []ContributionInfo `json:"contributions,omitempty"`
}

type ContributionInfo struct {
	AccountID  string    `json:"account_id"`
	ActivityID string    `json:"activity_id"`
	Points     int       `json:"points"`
	CreatedAt  time.Time `json:"created_at"`
}
