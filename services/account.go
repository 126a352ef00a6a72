// services/account.go
package services

import (
	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/hearthquest/quest_api/dto"
	"github.com/hearthquest/quest_api/economy"
	"github.com/hearthquest/quest_api/model"
	"github.com/hearthquest/quest_api/shared"
)

type AccountService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const ACCOUNT_SVC = "account_svc"

func (svc AccountService) Id() string {
	return ACCOUNT_SVC
}

func (svc *AccountService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AccountService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

// levelNames is presentation only. Thresholds live in the economy level
// table; themes swap these labels without ever touching thresholds.
var levelNames = map[int]string{
	1:  "Hatchling",
	2:  "Scout",
	3:  "Pathfinder",
	4:  "Trailblazer",
	5:  "Adventurer",
	6:  "Voyager",
	7:  "Champion",
	8:  "Hero",
	9:  "Legend",
	10: "Mythic",
	11: "Luminary",
	12: "Guardian of the Hearth",
}

func LevelName(number int) string {
	if name, ok := levelNames[number]; ok {
		return name
	}
	return "Adventurer"
}

func (svc *AccountService) GetProgressByUserID(userID string) (*dto.AccountProgressResponse, error) {
	account, err := svc.sqlSvc.GetAccountByUserID(userID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Account not found")
	}
	return svc.buildProgress(account)
}

func (svc *AccountService) GetProgress(accountID string) (*dto.AccountProgressResponse, error) {
	account, err := svc.sqlSvc.GetAccount(accountID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Account not found")
	}
	return svc.buildProgress(account)
}

// ListFamilyProgress returns the progress of every account linked to the
// guardian.
func (svc *AccountService) ListFamilyProgress(guardianID string) ([]dto.AccountProgressResponse, error) {
	accounts, err := svc.sqlSvc.GetAccountsByGuardian(guardianID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load family accounts")
	}

	progress := make([]dto.AccountProgressResponse, 0, len(accounts))
	for i := range accounts {
		p, err := svc.buildProgress(&accounts[i])
		if err != nil {
			log.WithError(err).WithField("account_id", accounts[i].ID).Error("Failed to build progress")
			continue
		}
		progress = append(progress, *p)
	}
	return progress, nil
}

// CanGuardianView reports whether the account is linked to the guardian.
func (svc *AccountService) CanGuardianView(guardianID, accountID string) (bool, error) {
	account, err := svc.sqlSvc.GetAccount(accountID)
	if err != nil {
		return false, shared.NewNotFoundError(err, "Account not found")
	}
	return account.GuardianID != nil && *account.GuardianID == guardianID, nil
}

func (svc *AccountService) buildProgress(account *model.Account) (*dto.AccountProgressResponse, error) {
	level := economy.LevelFor(account.XP)

	resp := &dto.AccountProgressResponse{
		AccountID:        account.ID,
		XP:               account.XP,
		Coins:            account.Coins,
		Level:            level.Number,
		LevelName:        LevelName(level.Number),
		ProgressPercent:  economy.ProgressFraction(account.XP),
		Streak:           account.Streak,
		LongestStreak:    account.LongestStreak,
		LastActivityDate: account.LastActivityDate,
		AdventurePoints:  account.AdventurePoints,
		Skills:           []dto.SkillProgressInfo{},
		RecentBonuses:    []dto.StreakBonusInfo{},
		RecentNotes:      []dto.RecognitionNoteInfo{},
	}

	if gap, ok := economy.ExperienceToNext(account.XP); ok {
		resp.XPToNextLevel = &gap
	}

	skills, err := svc.sqlSvc.GetSkillProgress(account.ID)
	if err != nil {
		log.WithError(err).WithField("account_id", account.ID).Warn("Failed to load skill progress")
	}
	for _, s := range skills {
		resp.Skills = append(resp.Skills, dto.SkillProgressInfo{
			SkillAreaID:    s.SkillAreaID,
			CompletedCount: s.CompletedCount,
			MasteryTier:    s.MasteryTier,
		})
	}

	bonuses, err := svc.sqlSvc.GetRecentStreakBonuses(account.ID, 5)
	if err != nil {
		log.WithError(err).WithField("account_id", account.ID).Warn("Failed to load streak bonuses")
	}
	for _, b := range bonuses {
		resp.RecentBonuses = append(resp.RecentBonuses, dto.StreakBonusInfo{
			StreakDay:   b.StreakDay,
			Tier:        b.Tier,
			Description: b.Description,
		})
	}

	notes, err := svc.sqlSvc.GetRecentRecognitionNotes(account.ID, 5)
	if err != nil {
		log.WithError(err).WithField("account_id", account.ID).Warn("Failed to load recognition notes")
	}
	for _, n := range notes {
		resp.RecentNotes = append(resp.RecentNotes, dto.RecognitionNoteInfo{
			Note:       n.Note,
			ReviewerID: n.ReviewerID,
			CreatedAt:  n.CreatedAt,
		})
	}

	return resp, nil
}

// GetActivityHistory lists an account's submissions, newest first.
func (svc *AccountService) GetActivityHistory(accountID string, limit int) ([]dto.ActivityResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	activities, err := svc.sqlSvc.GetActivitiesForAccount(accountID, limit)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load activities")
	}

	responses := make([]dto.ActivityResponse, len(activities))
	for i := range activities {
		responses[i] = toActivityResponse(&activities[i], activities[i].Definition.Name)
	}
	return responses, nil
}

// GetPendingReviews lists pending submissions across the guardian's linked
// accounts, oldest first.
func (svc *AccountService) GetPendingReviews(guardianID string) ([]dto.ActivityResponse, error) {
	accounts, err := svc.sqlSvc.GetAccountsByGuardian(guardianID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load family accounts")
	}

	if len(accounts) == 0 {
		return []dto.ActivityResponse{}, nil
	}

	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}

	pending, err := svc.sqlSvc.GetPendingActivitiesForAccounts(ids)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load pending activities")
	}

	responses := make([]dto.ActivityResponse, len(pending))
	for i := range pending {
		responses[i] = toActivityResponse(&pending[i], pending[i].Definition.Name)
	}
	return responses, nil
}
