// services/reward.go
package services

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/hearthquest/quest_api/dto"
	"github.com/hearthquest/quest_api/economy"
	"github.com/hearthquest/quest_api/model"
	"github.com/hearthquest/quest_api/shared"
)

// ErrAlreadyProcessed is returned by the status compare-and-swap when the
// activity is no longer pending. Exactly one of two concurrent approvals sees
// it.
var ErrAlreadyProcessed = errors.New("activity already processed")

// RewardStore is the backing-store surface the approval engine needs. Every
// increment is atomic at the store level and TransitionStatus is conditional
// on the current status; the engine never does read-modify-write on balances.
type RewardStore interface {
	GetSubmittedActivity(id string) (*model.SubmittedActivity, error)
	GetAccount(id string) (*model.Account, error)

	// TransitionStatus flips the activity out of fromStatus and persists
	// fields in the same statement. Returns false when the activity was not
	// in fromStatus, i.e. the compare-and-swap lost.
	TransitionStatus(id, fromStatus, toStatus string, fields map[string]interface{}) (bool, error)

	IncrementBalances(accountID string, xp, coins int) error
	SetStreak(accountID string, current, longest int, lastActivityDate time.Time) error
	IncrementAdventurePoints(accountID string, points int) error

	IncrementSkillProgress(accountID, skillAreaID string) (int, error)
	SetMasteryTier(accountID, skillAreaID, tier string) error

	GetActiveGoal(guardianID string) (*model.FamilyGoal, error)
	AppendContribution(contribution *model.GoalContribution) error
	IncrementGoalPoints(goalID string, points int) (int, error)
	// FinalizeGoal flips active -> achieved, guarded on the target being met.
	// Returns false when another contribution already finalized it.
	FinalizeGoal(goalID string) (bool, error)

	CreateRecognitionNote(note *model.RecognitionNote) error
	// CreateStreakBonus grants a milestone box at most once per (account,
	// streak day, grant date). Returns false when a concurrent approval
	// already granted it.
	CreateStreakBonus(bonus *model.StreakBonus) (bool, error)

	// InTransaction runs fn against a transaction-bound copy of the store.
	InTransaction(fn func(RewardStore) error) error
}

// Notifier dispatches fire-and-forget events. Failures never block or roll
// back the economic transaction.
type Notifier interface {
	PublishEvent(event string, payload interface{})
}

type RewardService struct {
	context.DefaultService

	sqlSvc    *PostgresService
	notifySvc *NotificationService

	store   RewardStore
	applier Applier
	notify  Notifier

	rngMu sync.Mutex
	rng   *rand.Rand
}

const REWARD_SVC = "reward_svc"

func (svc RewardService) Id() string {
	return REWARD_SVC
}

func (svc *RewardService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *RewardService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.notifySvc = svc.Service(NOTIFICATION_SVC).(*NotificationService)

	svc.store = svc.sqlSvc.RewardStore()
	svc.notify = svc.notifySvc
	svc.rng = rand.New(rand.NewSource(time.Now().UnixNano()))

	// The stepwise applier exists for stores without transaction support. It
	// has weaker guarantees, so selecting it is loud.
	switch os.Getenv("REWARD_APPLIER") {
	case "stepwise":
		log.Warn("Using stepwise reward applier: side effects after the status transition are best-effort")
		svc.applier = &StepwiseApplier{}
	default:
		svc.applier = &AtomicApplier{}
	}

	return nil
}

// rollBox draws a mystery-box reward. The shared source is guarded because
// approvals run concurrently; the lock never spans a store call.
func (svc *RewardService) rollBox() economy.BoxReward {
	svc.rngMu.Lock()
	defer svc.rngMu.Unlock()
	if svc.rng == nil {
		svc.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return economy.RollBox(svc.rng)
}

// ==================== SUBMISSION ====================

func (svc *RewardService) SubmitActivity(userID string, req dto.SubmitActivityRequest) (*dto.ApprovalResponse, error) {
	account, err := svc.sqlSvc.GetAccountByUserID(userID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Account not found")
	}

	def, err := svc.sqlSvc.GetDefinition(req.DefinitionID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Activity definition not found")
	}
	if !def.IsActive {
		return nil, shared.NewBadRequestError(nil, "Activity definition is no longer available")
	}
	if def.RequiresScore && req.Score == nil {
		return nil, shared.NewBadRequestError(nil, "This activity requires a score")
	}

	id, _ := uuid.NewV7()
	now := time.Now()
	activity := &model.SubmittedActivity{
		ID:           id.String(),
		AccountID:    account.ID,
		DefinitionID: def.ID,
		Score:        req.Score,
		Note:         req.Note,
		Status:       shared.StatusPending,
		SubmittedAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := svc.sqlSvc.CreateSubmittedActivity(activity); err != nil {
		return nil, shared.NewInternalError(err, "Failed to submit activity")
	}

	// Definitions that skip review go straight through the same engine under
	// the system reviewer, so auto-approvals obey every approval rule.
	if !def.RequiresApproval {
		return svc.Approve(activity.ID, shared.SystemReviewer, shared.RoleAdmin, dto.ApproveActivityRequest{})
	}

	svc.notify.PublishEvent("activity.submitted", map[string]interface{}{
		"activity_id": activity.ID,
		"account_id":  account.ID,
		"guardian_id": account.GuardianID,
		"name":        def.Name,
	})

	return &dto.ApprovalResponse{
		Activity: toActivityResponse(activity, def.Name),
	}, nil
}

// ==================== APPROVAL ====================

// Approve runs the full approval transaction: status compare-and-swap,
// balance increments, streak update, skill progress, family-goal
// contribution and recognition note — together or not at all on the atomic
// path.
func (svc *RewardService) Approve(activityID, reviewerID, reviewerRole string, req dto.ApproveActivityRequest) (*dto.ApprovalResponse, error) {
	// Validation before any mutation.
	now := time.Now()
	activityDate := now
	if req.ActivityDate != nil {
		if req.ActivityDate.After(now) {
			return nil, shared.NewBadRequestError(nil, "Activity date cannot be in the future")
		}
		activityDate = *req.ActivityDate
	}

	activity, err := svc.store.GetSubmittedActivity(activityID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Activity not found")
	}
	if activity.Status != shared.StatusPending {
		return nil, shared.NewNotFoundError(ErrAlreadyProcessed, "Activity already processed")
	}

	account, err := svc.store.GetAccount(activity.AccountID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load account")
	}

	if err := authorizeReviewer(account, reviewerID, reviewerRole); err != nil {
		return nil, err
	}

	def := &activity.Definition
	earnedXP, earnedCoins, flawless := computeReward(def, activity.Score)
	streak := economy.NextStreak(account.LastActivityDate, account.Streak, account.LongestStreak, activityDate)

	effects := &approvalEffects{
		Activity:     activity,
		Account:      account,
		ReviewerID:   reviewerID,
		ReviewedAt:   now,
		ActivityDate: economy.DateOnly(activityDate),
		EarnedXP:     earnedXP,
		EarnedCoins:  earnedCoins,
		Flawless:     flawless,
		Streak:       streak,
		SkillAreaID:  def.SkillAreaID,
		GoalPoints:   def.AdventurePoints,
		Note:         req.RecognitionNote,
	}

	if economy.IsMilestone(streak) {
		box := svc.rollBox()
		effects.Bonus = &box
	}

	if err := svc.applier.Apply(svc.store, effects); err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			recordApproval("lost_race")
			return nil, shared.NewNotFoundError(err, "Activity already processed")
		}
		recordApproval("failed")
		return nil, shared.NewInternalError(err, "Failed to apply approval")
	}
	recordApproval("approved")

	svc.notify.PublishEvent("activity.approved", map[string]interface{}{
		"activity_id": activity.ID,
		"account_id":  account.ID,
		"earned_xp":   earnedXP,
		"flawless":    flawless,
	})

	return svc.buildApprovalResponse(effects), nil
}

// Reject transitions the activity to rejected with zeroed rewards. Same
// compare-and-swap discipline as approve; no other side effect.
func (svc *RewardService) Reject(activityID, reviewerID, reviewerRole string, req dto.RejectActivityRequest) (*dto.ActivityResponse, error) {
	activity, err := svc.store.GetSubmittedActivity(activityID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Activity not found")
	}
	if activity.Status != shared.StatusPending {
		return nil, shared.NewNotFoundError(ErrAlreadyProcessed, "Activity already processed")
	}

	account, err := svc.store.GetAccount(activity.AccountID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load account")
	}

	if err := authorizeReviewer(account, reviewerID, reviewerRole); err != nil {
		return nil, err
	}

	now := time.Now()
	swapped, err := svc.store.TransitionStatus(activityID, shared.StatusPending, shared.StatusRejected, map[string]interface{}{
		"reviewed_at":  now,
		"reviewer_id":  reviewerID,
		"earned_xp":    0,
		"earned_coins": 0,
		"flawless":     false,
		"updated_at":   now,
	})
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to reject activity")
	}
	if !swapped {
		recordApproval("lost_race")
		return nil, shared.NewNotFoundError(ErrAlreadyProcessed, "Activity already processed")
	}
	recordApproval("rejected")

	svc.notify.PublishEvent("activity.rejected", map[string]interface{}{
		"activity_id": activity.ID,
		"account_id":  account.ID,
		"reason":      req.Reason,
	})

	activity.Status = shared.StatusRejected
	activity.ReviewedAt = &now
	resp := toActivityResponse(activity, activity.Definition.Name)
	return &resp, nil
}

func (svc *RewardService) buildApprovalResponse(e *approvalEffects) *dto.ApprovalResponse {
	oldLevel := economy.LevelFor(e.Account.XP)
	newXP := e.Account.XP + e.EarnedXP
	newLevel := economy.LevelFor(newXP)

	e.Activity.Status = shared.StatusApproved
	e.Activity.ReviewedAt = &e.ReviewedAt
	e.Activity.EarnedXP = e.EarnedXP
	e.Activity.EarnedCoins = e.EarnedCoins
	e.Activity.Flawless = e.Flawless

	resp := &dto.ApprovalResponse{
		Activity:      toActivityResponse(e.Activity, e.Activity.Definition.Name),
		NewXP:         newXP,
		NewCoins:      e.Account.Coins + e.EarnedCoins,
		NewLevel:      newLevel.Number,
		LeveledUp:     newLevel.Number > oldLevel.Number,
		Streak:        e.Streak.NewStreak,
		LongestStreak: e.Streak.NewLongest,
	}

	if e.Bonus != nil {
		resp.StreakBonus = &dto.StreakBonusInfo{
			StreakDay:   e.Streak.NewStreak,
			Tier:        e.Bonus.Tier,
			Description: e.Bonus.Description,
		}
	}

	if e.GoalResult != nil {
		resp.GoalProgress = &dto.GoalProgressInfo{
			GoalID:        e.GoalResult.GoalID,
			PointsCurrent: e.GoalResult.PointsCurrent,
			PointsTarget:  e.GoalResult.PointsTarget,
			Achieved:      e.GoalResult.Achieved,
		}
	}

	return resp
}

// authorizeReviewer enforces the guardian/child link. Admins and the system
// reviewer act on any account.
func authorizeReviewer(account *model.Account, reviewerID, reviewerRole string) error {
	switch reviewerRole {
	case shared.RoleAdmin:
		return nil
	case shared.RoleGuardian:
		if account.GuardianID == nil || *account.GuardianID != reviewerID {
			return shared.NewForbiddenError(nil, "You can only review activities of your own family members")
		}
		return nil
	default:
		return shared.NewForbiddenError(nil, "Only guardians and admins can review activities")
	}
}

// computeReward applies the flawless rule: a score at or above the
// definition's threshold doubles both rewards.
func computeReward(def *model.ActivityDefinition, score *int) (xp, coins int, flawless bool) {
	xp = def.XPReward
	coins = def.CoinReward

	if def.FlawlessThreshold != nil && score != nil && *score >= *def.FlawlessThreshold {
		xp *= 2
		coins *= 2
		flawless = true
	}
	return xp, coins, flawless
}

func toActivityResponse(a *model.SubmittedActivity, name string) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:           a.ID,
		AccountID:    a.AccountID,
		DefinitionID: a.DefinitionID,
		Name:         name,
		Score:        a.Score,
		Note:         a.Note,
		Status:       a.Status,
		SubmittedAt:  a.SubmittedAt,
		ReviewedAt:   a.ReviewedAt,
		EarnedXP:     a.EarnedXP,
		EarnedCoins:  a.EarnedCoins,
		Flawless:     a.Flawless,
	}
}

// ==================== APPLIERS ====================

// approvalEffects is everything one approval decision changes, computed
// before any mutation so both appliers run identical steps.
type approvalEffects struct {
	Activity     *model.SubmittedActivity
	Account      *model.Account
	ReviewerID   string
	ReviewedAt   time.Time
	ActivityDate time.Time
	EarnedXP     int
	EarnedCoins  int
	Flawless     bool
	Streak       economy.StreakResult
	SkillAreaID  *string
	GoalPoints   int
	Note         string
	Bonus        *economy.BoxReward

	// GoalResult is filled during apply when the account's guardian has an
	// active goal.
	GoalResult *goalResult
}

type goalResult struct {
	GoalID        string
	PointsCurrent int
	PointsTarget  int
	Achieved      bool
}

// Applier applies the approval side effects. AtomicApplier is the default;
// StepwiseApplier is the fallback for stores without transactions.
type Applier interface {
	Apply(store RewardStore, e *approvalEffects) error
}

// transitionApproval is step 1, the gate: a conditional pending->approved
// swap that also fixes the earned amounts permanently.
func transitionApproval(store RewardStore, e *approvalEffects) error {
	swapped, err := store.TransitionStatus(e.Activity.ID, shared.StatusPending, shared.StatusApproved, map[string]interface{}{
		"reviewed_at":   e.ReviewedAt,
		"reviewer_id":   e.ReviewerID,
		"activity_date": e.ActivityDate,
		"earned_xp":     e.EarnedXP,
		"earned_coins":  e.EarnedCoins,
		"flawless":      e.Flawless,
		"updated_at":    e.ReviewedAt,
	})
	if err != nil {
		return err
	}
	if !swapped {
		return ErrAlreadyProcessed
	}
	return nil
}

type applyStep struct {
	name string
	run  func(RewardStore, *approvalEffects) error
}

// sideEffectSteps are steps 2-6, run after the status transition committed.
var sideEffectSteps = []applyStep{
	{"balances", func(s RewardStore, e *approvalEffects) error {
		return s.IncrementBalances(e.Account.ID, e.EarnedXP, e.EarnedCoins)
	}},
	{"streak", func(s RewardStore, e *approvalEffects) error {
		return s.SetStreak(e.Account.ID, e.Streak.NewStreak, e.Streak.NewLongest, e.ActivityDate)
	}},
	{"streak_bonus", func(s RewardStore, e *approvalEffects) error {
		if e.Bonus == nil {
			return nil
		}
		id, _ := uuid.NewV7()
		created, err := s.CreateStreakBonus(&model.StreakBonus{
			ID:          id.String(),
			AccountID:   e.Account.ID,
			StreakDay:   e.Streak.NewStreak,
			GrantedOn:   e.ActivityDate,
			Tier:        e.Bonus.Tier,
			Description: e.Bonus.Description,
			CreatedAt:   e.ReviewedAt,
		})
		if err != nil {
			return err
		}
		// A concurrent approval computed the same milestone from the same
		// streak snapshot and won; this approval reports no box.
		if !created {
			e.Bonus = nil
		}
		return nil
	}},
	{"skill_progress", func(s RewardStore, e *approvalEffects) error {
		if e.SkillAreaID == nil {
			return nil
		}
		count, err := s.IncrementSkillProgress(e.Account.ID, *e.SkillAreaID)
		if err != nil {
			return err
		}
		return s.SetMasteryTier(e.Account.ID, *e.SkillAreaID, economy.MasteryTierFor(count))
	}},
	{"family_goal", applyFamilyGoal},
	{"recognition_note", func(s RewardStore, e *approvalEffects) error {
		if e.Note == "" {
			return nil
		}
		id, _ := uuid.NewV7()
		return s.CreateRecognitionNote(&model.RecognitionNote{
			ID:         id.String(),
			AccountID:  e.Account.ID,
			ActivityID: e.Activity.ID,
			ReviewerID: e.ReviewerID,
			Note:       e.Note,
			CreatedAt:  e.ReviewedAt,
		})
	}},
}

func applyFamilyGoal(s RewardStore, e *approvalEffects) error {
	if e.Account.GuardianID == nil || e.GoalPoints <= 0 {
		return nil
	}

	goal, err := s.GetActiveGoal(*e.Account.GuardianID)
	if err != nil {
		return err
	}
	if goal == nil {
		return nil
	}

	id, _ := uuid.NewV7()
	if err := s.AppendContribution(&model.GoalContribution{
		ID:         id.String(),
		GoalID:     goal.ID,
		AccountID:  e.Account.ID,
		ActivityID: e.Activity.ID,
		Points:     e.GoalPoints,
		CreatedAt:  e.ReviewedAt,
	}); err != nil {
		return err
	}

	newPoints, err := s.IncrementGoalPoints(goal.ID, e.GoalPoints)
	if err != nil {
		return err
	}

	// Adventure points also accrue on the contributing account.
	if err := s.IncrementAdventurePoints(e.Account.ID, e.GoalPoints); err != nil {
		return err
	}

	achieved := false
	if newPoints >= goal.PointsTarget {
		// Guarded transition: two contributions crossing the threshold
		// concurrently finalize the goal exactly once.
		achieved, err = s.FinalizeGoal(goal.ID)
		if err != nil {
			return err
		}
	}

	e.GoalResult = &goalResult{
		GoalID:        goal.ID,
		PointsCurrent: newPoints,
		PointsTarget:  goal.PointsTarget,
		Achieved:      achieved || newPoints >= goal.PointsTarget,
	}
	return nil
}

// AtomicApplier runs the transition and every side effect inside one store
// transaction: all applied together or not at all.
type AtomicApplier struct{}

func (AtomicApplier) Apply(store RewardStore, e *approvalEffects) error {
	return store.InTransaction(func(tx RewardStore) error {
		if err := transitionApproval(tx, e); err != nil {
			return err
		}
		for _, step := range sideEffectSteps {
			if err := step.run(tx, e); err != nil {
				return fmt.Errorf("step %s: %w", step.name, err)
			}
		}
		return nil
	})
}

// StepwiseApplier applies the same steps without a surrounding transaction.
// The status transition still happens exactly once; sub-steps that fail
// afterwards are logged and counted, never silently dropped — the activity
// is no longer re-processable, so the caller still sees success and an
// operator reconciles from the log.
type StepwiseApplier struct{}

func (StepwiseApplier) Apply(store RewardStore, e *approvalEffects) error {
	recordStepwiseUse()

	if err := transitionApproval(store, e); err != nil {
		return err
	}

	for _, step := range sideEffectSteps {
		if err := step.run(store, e); err != nil {
			partial := &shared.PartialApplyError{
				ActivityID: e.Activity.ID,
				AccountID:  e.Account.ID,
				Step:       step.name,
				Err:        err,
			}
			// The approval itself stands: the activity cannot be re-processed,
			// so this is surfaced to operators, not to the caller.
			log.WithError(partial).WithFields(log.Fields{
				"activity_id": e.Activity.ID,
				"account_id":  e.Account.ID,
				"step":        step.name,
			}).Error("Approval sub-step failed after status transition; manual reconciliation required")
			recordPartialApply(step.name)
		}
	}
	return nil
}
