// services/reward_store.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hearthquest/quest_api/model"
	"github.com/hearthquest/quest_api/shared"
)

// gormRewardStore implements RewardStore on a gorm handle. The same type
// serves both the root connection and a transaction-bound copy, which is how
// InTransaction hands the atomic applier a transactional view.
type gormRewardStore struct {
	db *gorm.DB
}

func (s *gormRewardStore) GetSubmittedActivity(id string) (*model.SubmittedActivity, error) {
	var activity model.SubmittedActivity
	if err := s.db.Preload("Definition").Where("id = ?", id).First(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *gormRewardStore) GetAccount(id string) (*model.Account, error) {
	var account model.Account
	if err := s.db.Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *gormRewardStore) TransitionStatus(id, fromStatus, toStatus string, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": toStatus}
	for k, v := range fields {
		updates[k] = v
	}

	res := s.db.Model(&model.SubmittedActivity{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormRewardStore) IncrementBalances(accountID string, xp, coins int) error {
	return s.db.Model(&model.Account{}).Where("id = ?", accountID).Updates(map[string]interface{}{
		"xp":         gorm.Expr("xp + ?", xp),
		"coins":      gorm.Expr("coins + ?", coins),
		"updated_at": time.Now(),
	}).Error
}

func (s *gormRewardStore) SetStreak(accountID string, current, longest int, lastActivityDate time.Time) error {
	return s.db.Model(&model.Account{}).Where("id = ?", accountID).Updates(map[string]interface{}{
		"streak":             current,
		"longest_streak":     longest,
		"last_activity_date": lastActivityDate,
		"updated_at":         time.Now(),
	}).Error
}

func (s *gormRewardStore) IncrementAdventurePoints(accountID string, points int) error {
	return s.db.Model(&model.Account{}).Where("id = ?", accountID).Updates(map[string]interface{}{
		"adventure_points": gorm.Expr("adventure_points + ?", points),
		"updated_at":       time.Now(),
	}).Error
}

func (s *gormRewardStore) IncrementSkillProgress(accountID, skillAreaID string) (int, error) {
	res := s.db.Model(&model.SkillProgress{}).
		Where("account_id = ? AND skill_area_id = ?", accountID, skillAreaID).
		Updates(map[string]interface{}{
			"completed_count": gorm.Expr("completed_count + 1"),
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		id, _ := uuid.NewV7()
		progress := &model.SkillProgress{
			ID:             id.String(),
			AccountID:      accountID,
			SkillAreaID:    skillAreaID,
			CompletedCount: 1,
			MasteryTier:    shared.MasteryExploring,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		if err := s.db.Create(progress).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	var progress model.SkillProgress
	if err := s.db.Where("account_id = ? AND skill_area_id = ?", accountID, skillAreaID).
		First(&progress).Error; err != nil {
		return 0, err
	}
	return progress.CompletedCount, nil
}

func (s *gormRewardStore) SetMasteryTier(accountID, skillAreaID, tier string) error {
	return s.db.Model(&model.SkillProgress{}).
		Where("account_id = ? AND skill_area_id = ?", accountID, skillAreaID).
		Update("mastery_tier", tier).Error
}

func (s *gormRewardStore) GetActiveGoal(guardianID string) (*model.FamilyGoal, error) {
	var goal model.FamilyGoal
	err := s.db.Where("guardian_id = ? AND status = ?", guardianID, shared.GoalActive).
		Order("created_at DESC").
		First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *gormRewardStore) AppendContribution(contribution *model.GoalContribution) error {
	return s.db.Create(contribution).Error
}

func (s *gormRewardStore) IncrementGoalPoints(goalID string, points int) (int, error) {
	err := s.db.Model(&model.FamilyGoal{}).Where("id = ?", goalID).Updates(map[string]interface{}{
		"points_current": gorm.Expr("points_current + ?", points),
		"updated_at":     time.Now(),
	}).Error
	if err != nil {
		return 0, err
	}

	var goal model.FamilyGoal
	if err := s.db.Where("id = ?", goalID).First(&goal).Error; err != nil {
		return 0, err
	}
	return goal.PointsCurrent, nil
}

func (s *gormRewardStore) FinalizeGoal(goalID string) (bool, error) {
	res := s.db.Model(&model.FamilyGoal{}).
		Where("id = ? AND status = ? AND points_current >= points_target", goalID, shared.GoalActive).
		Updates(map[string]interface{}{
			"status":      shared.GoalAchieved,
			"achieved_at": time.Now(),
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormRewardStore) CreateRecognitionNote(note *model.RecognitionNote) error {
	return s.db.Create(note).Error
}

// CreateStreakBonus inserts the bonus unless the (account, streak day, grant
// date) row already exists. The conflict path is how a lost milestone race
// reports back without an error.
func (s *gormRewardStore) CreateStreakBonus(bonus *model.StreakBonus) (bool, error) {
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(bonus)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormRewardStore) InTransaction(fn func(RewardStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRewardStore{db: tx})
	})
}
