package services

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/hearthquest/quest_api/dto"
	"github.com/hearthquest/quest_api/model"
	"github.com/hearthquest/quest_api/shared"
)

// fakeRewardStore is an in-memory RewardStore for exercising the approval
// engine without a database. failOn injects an error into a named store
// method to simulate mid-apply failures.
type fakeRewardStore struct {
	mu sync.Mutex

	activity *model.SubmittedActivity
	account  *model.Account
	goal     *model.FamilyGoal

	skillCounts   map[string]int
	masteryTiers  map[string]string
	bonuses       []model.StreakBonus
	notes         []model.RecognitionNote
	contributions []model.GoalContribution

	failOn map[string]error
}

func newFakeStore(activity *model.SubmittedActivity, account *model.Account) *fakeRewardStore {
	return &fakeRewardStore{
		activity:     activity,
		account:      account,
		skillCounts:  map[string]int{},
		masteryTiers: map[string]string{},
		failOn:       map[string]error{},
	}
}

func (f *fakeRewardStore) fail(method string) error {
	return f.failOn[method]
}

func (f *fakeRewardStore) GetSubmittedActivity(id string) (*model.SubmittedActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activity == nil || f.activity.ID != id {
		return nil, errors.New("record not found")
	}
	return f.activity, nil
}

func (f *fakeRewardStore) GetAccount(id string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.account == nil || f.account.ID != id {
		return nil, errors.New("record not found")
	}
	return f.account, nil
}

func (f *fakeRewardStore) TransitionStatus(id, fromStatus, toStatus string, fields map[string]interface{}) (bool, error) {
	if err := f.fail("TransitionStatus"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activity == nil || f.activity.ID != id || f.activity.Status != fromStatus {
		return false, nil
	}
	f.activity.Status = toStatus
	if xp, ok := fields["earned_xp"].(int); ok {
		f.activity.EarnedXP = xp
	}
	if coins, ok := fields["earned_coins"].(int); ok {
		f.activity.EarnedCoins = coins
	}
	if flawless, ok := fields["flawless"].(bool); ok {
		f.activity.Flawless = flawless
	}
	return true, nil
}

func (f *fakeRewardStore) IncrementBalances(accountID string, xp, coins int) error {
	if err := f.fail("IncrementBalances"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.account.XP += xp
	f.account.Coins += coins
	return nil
}

func (f *fakeRewardStore) SetStreak(accountID string, current, longest int, lastActivityDate time.Time) error {
	if err := f.fail("SetStreak"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.account.Streak = current
	f.account.LongestStreak = longest
	f.account.LastActivityDate = &lastActivityDate
	return nil
}

func (f *fakeRewardStore) IncrementAdventurePoints(accountID string, points int) error {
	if err := f.fail("IncrementAdventurePoints"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.account.AdventurePoints += points
	return nil
}

func (f *fakeRewardStore) IncrementSkillProgress(accountID, skillAreaID string) (int, error) {
	if err := f.fail("IncrementSkillProgress"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.skillCounts[skillAreaID]++
	return f.skillCounts[skillAreaID], nil
}

func (f *fakeRewardStore) SetMasteryTier(accountID, skillAreaID, tier string) error {
	if err := f.fail("SetMasteryTier"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.masteryTiers[skillAreaID] = tier
	return nil
}

func (f *fakeRewardStore) GetActiveGoal(guardianID string) (*model.FamilyGoal, error) {
	if err := f.fail("GetActiveGoal"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.goal == nil || f.goal.GuardianID != guardianID || f.goal.Status != shared.GoalActive {
		return nil, nil
	}
	goal := *f.goal
	return &goal, nil
}

func (f *fakeRewardStore) AppendContribution(contribution *model.GoalContribution) error {
	if err := f.fail("AppendContribution"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contributions = append(f.contributions, *contribution)
	return nil
}

func (f *fakeRewardStore) IncrementGoalPoints(goalID string, points int) (int, error) {
	if err := f.fail("IncrementGoalPoints"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.goal.PointsCurrent += points
	return f.goal.PointsCurrent, nil
}

func (f *fakeRewardStore) FinalizeGoal(goalID string) (bool, error) {
	if err := f.fail("FinalizeGoal"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.goal.Status != shared.GoalActive || f.goal.PointsCurrent < f.goal.PointsTarget {
		return false, nil
	}
	now := time.Now()
	f.goal.Status = shared.GoalAchieved
	f.goal.AchievedAt = &now
	return true, nil
}

func (f *fakeRewardStore) CreateRecognitionNote(note *model.RecognitionNote) error {
	if err := f.fail("CreateRecognitionNote"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, *note)
	return nil
}

func (f *fakeRewardStore) CreateStreakBonus(bonus *model.StreakBonus) (bool, error) {
	if err := f.fail("CreateStreakBonus"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	// Mirrors the store's unique index on (account, streak day, grant date).
	for _, b := range f.bonuses {
		if b.AccountID == bonus.AccountID && b.StreakDay == bonus.StreakDay && b.GrantedOn.Equal(bonus.GrantedOn) {
			return false, nil
		}
	}
	f.bonuses = append(f.bonuses, *bonus)
	return true, nil
}

func (f *fakeRewardStore) InTransaction(fn func(RewardStore) error) error {
	return fn(f)
}

type noopNotifier struct{}

func (noopNotifier) PublishEvent(event string, payload interface{}) {}

func newTestRewardService(store RewardStore, applier Applier) *RewardService {
	return &RewardService{
		store:   store,
		applier: applier,
		notify:  noopNotifier{},
	}
}

func intPtr(v int) *int              { return &v }
func strPtr(v string) *string        { return &v }
func datePtr(t time.Time) *time.Time { return &t }

const (
	testGuardianID = "guardian-1"
	testAccountID  = "account-1"
	testActivityID = "activity-1"
)

func testFixture(def model.ActivityDefinition, score *int) (*model.SubmittedActivity, *model.Account) {
	activity := &model.SubmittedActivity{
		ID:           testActivityID,
		AccountID:    testAccountID,
		DefinitionID: def.ID,
		Score:        score,
		Status:       shared.StatusPending,
		SubmittedAt:  time.Now(),
		Definition:   def,
	}
	guardianID := testGuardianID
	account := &model.Account{
		ID:         testAccountID,
		UserID:     "user-1",
		GuardianID: &guardianID,
	}
	return activity, account
}

func TestApproveFlawlessDoubling(t *testing.T) {
	def := model.ActivityDefinition{
		ID:                "def-1",
		Name:              "Math Drill",
		XPReward:          100,
		CoinReward:        10,
		FlawlessThreshold: intPtr(40),
		IsActive:          true,
	}

	tests := []struct {
		name         string
		score        *int
		wantXP       int
		wantCoins    int
		wantFlawless bool
	}{
		{"score at threshold doubles", intPtr(40), 200, 20, true},
		{"score above threshold doubles", intPtr(45), 200, 20, true},
		{"score below threshold stays base", intPtr(39), 100, 10, false},
		{"no score stays base", nil, 100, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity, account := testFixture(def, tt.score)
			store := newFakeStore(activity, account)
			svc := newTestRewardService(store, &AtomicApplier{})

			resp, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
			if err != nil {
				t.Fatalf("Approve() error = %v", err)
			}

			if resp.Activity.EarnedXP != tt.wantXP {
				t.Errorf("EarnedXP = %d, want %d", resp.Activity.EarnedXP, tt.wantXP)
			}
			if resp.Activity.EarnedCoins != tt.wantCoins {
				t.Errorf("EarnedCoins = %d, want %d", resp.Activity.EarnedCoins, tt.wantCoins)
			}
			if resp.Activity.Flawless != tt.wantFlawless {
				t.Errorf("Flawless = %v, want %v", resp.Activity.Flawless, tt.wantFlawless)
			}
			if account.XP != tt.wantXP || account.Coins != tt.wantCoins {
				t.Errorf("account balances = (%d, %d), want (%d, %d)", account.XP, account.Coins, tt.wantXP, tt.wantCoins)
			}
		})
	}
}

func TestApproveExactlyOnce(t *testing.T) {
	def := model.ActivityDefinition{ID: "def-1", Name: "Dishes", XPReward: 40, CoinReward: 4, IsActive: true}
	activity, account := testFixture(def, nil)
	store := newFakeStore(activity, account)
	svc := newTestRewardService(store, &AtomicApplier{})

	if _, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{}); err != nil {
		t.Fatalf("first Approve() error = %v", err)
	}

	_, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
	if err == nil {
		t.Fatal("second Approve() succeeded, want already-processed error")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusNotFound {
		t.Errorf("second Approve() error = %v, want 404 AppError", err)
	}

	if account.XP != 40 {
		t.Errorf("account XP = %d, want 40 (credited exactly once)", account.XP)
	}
}

func TestApproveLostRaceAtTransition(t *testing.T) {
	// Pending at read time but swapped by a concurrent reviewer before the
	// transition commits.
	def := model.ActivityDefinition{ID: "def-1", Name: "Dishes", XPReward: 40, CoinReward: 4, IsActive: true}
	activity, account := testFixture(def, nil)
	store := newFakeStore(activity, account)

	raceApplier := applierFunc(func(s RewardStore, e *approvalEffects) error {
		store.activity.Status = shared.StatusApproved
		return (&AtomicApplier{}).Apply(s, e)
	})
	svc := newTestRewardService(store, raceApplier)

	_, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
	if err == nil {
		t.Fatal("Approve() succeeded, want lost-race error")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusNotFound {
		t.Errorf("error = %v, want 404 AppError", err)
	}
	if account.XP != 0 {
		t.Errorf("account XP = %d, want 0 after lost race", account.XP)
	}
}

type applierFunc func(RewardStore, *approvalEffects) error

func (fn applierFunc) Apply(s RewardStore, e *approvalEffects) error { return fn(s, e) }

func TestApproveFutureActivityDate(t *testing.T) {
	def := model.ActivityDefinition{ID: "def-1", Name: "Dishes", XPReward: 40, CoinReward: 4, IsActive: true}
	activity, account := testFixture(def, nil)
	store := newFakeStore(activity, account)
	svc := newTestRewardService(store, &AtomicApplier{})

	future := time.Now().Add(48 * time.Hour)
	_, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{ActivityDate: &future})
	if err == nil {
		t.Fatal("Approve() with future date succeeded, want validation error")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusBadRequest {
		t.Errorf("error = %v, want 400 AppError", err)
	}
	if activity.Status != shared.StatusPending {
		t.Errorf("activity status = %s, want pending (nothing mutated)", activity.Status)
	}
}

func TestApproveAuthorization(t *testing.T) {
	def := model.ActivityDefinition{ID: "def-1", Name: "Dishes", XPReward: 40, CoinReward: 4, IsActive: true}

	tests := []struct {
		name         string
		reviewerID   string
		reviewerRole string
		wantStatus   int
	}{
		{"linked guardian allowed", testGuardianID, shared.RoleGuardian, 0},
		{"unlinked guardian forbidden", "guardian-other", shared.RoleGuardian, http.StatusForbidden},
		{"student forbidden", "student-1", shared.RoleStudent, http.StatusForbidden},
		{"admin allowed", "admin-1", shared.RoleAdmin, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity, account := testFixture(def, nil)
			store := newFakeStore(activity, account)
			svc := newTestRewardService(store, &AtomicApplier{})

			_, err := svc.Approve(testActivityID, tt.reviewerID, tt.reviewerRole, dto.ApproveActivityRequest{})
			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("Approve() error = %v, want success", err)
				}
				return
			}

			appErr, ok := shared.GetAppError(err)
			if !ok || appErr.StatusCode != tt.wantStatus {
				t.Errorf("Approve() error = %v, want %d AppError", err, tt.wantStatus)
			}
			if activity.Status != shared.StatusPending {
				t.Errorf("activity status = %s, want pending", activity.Status)
			}
		})
	}
}

func TestApproveStreakMilestoneRollsBonus(t *testing.T) {
	def := model.ActivityDefinition{ID: "def-1", Name: "Reading", XPReward: 50, CoinReward: 5, IsActive: true}
	activity, account := testFixture(def, nil)

	yesterday := time.Now().AddDate(0, 0, -1)
	account.Streak = 6
	account.LongestStreak = 6
	account.LastActivityDate = datePtr(time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.Local))

	store := newFakeStore(activity, account)
	svc := newTestRewardService(store, &AtomicApplier{})

	resp, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if resp.Streak != 7 {
		t.Fatalf("Streak = %d, want 7", resp.Streak)
	}
	if resp.StreakBonus == nil {
		t.Fatal("StreakBonus = nil, want a mystery-box roll at day 7")
	}
	if resp.StreakBonus.StreakDay != 7 {
		t.Errorf("StreakBonus.StreakDay = %d, want 7", resp.StreakBonus.StreakDay)
	}
	if len(store.bonuses) != 1 {
		t.Errorf("persisted bonuses = %d, want 1", len(store.bonuses))
	}
}

// Two approvals racing on the same pre-update streak snapshot both compute
// milestone day 7 and both roll, but only one grant may land.
func TestApproveMilestoneBonusGrantedOnce(t *testing.T) {
	def := model.ActivityDefinition{ID: "def-1", Name: "Reading", XPReward: 50, CoinReward: 5, IsActive: true}
	activity, account := testFixture(def, nil)

	yesterday := time.Now().AddDate(0, 0, -1)
	snapshotDate := datePtr(time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.Local))
	account.Streak = 6
	account.LongestStreak = 6
	account.LastActivityDate = snapshotDate

	store := newFakeStore(activity, account)
	svc := newTestRewardService(store, &AtomicApplier{})

	resp, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
	if err != nil {
		t.Fatalf("first Approve() error = %v", err)
	}
	if resp.StreakBonus == nil {
		t.Fatal("first approval StreakBonus = nil, want a roll at day 7")
	}

	// The racing approval read the account before the first one persisted its
	// streak update, so it sees the same day-6 snapshot.
	account.Streak = 6
	account.LongestStreak = 6
	account.LastActivityDate = snapshotDate
	store.activity = &model.SubmittedActivity{
		ID: "activity-2", AccountID: testAccountID, DefinitionID: def.ID,
		Status: shared.StatusPending, SubmittedAt: time.Now(), Definition: def,
	}

	resp2, err := svc.Approve("activity-2", testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
	if err != nil {
		t.Fatalf("second Approve() error = %v", err)
	}
	if resp2.StreakBonus != nil {
		t.Errorf("second approval StreakBonus = %+v, want nil (grant lost to the first)", resp2.StreakBonus)
	}
	if len(store.bonuses) != 1 {
		t.Errorf("persisted bonuses = %d, want 1", len(store.bonuses))
	}
}

func TestApproveSkillProgress(t *testing.T) {
	def := model.ActivityDefinition{
		ID: "def-1", Name: "Math Drill", XPReward: 50, CoinReward: 5,
		SkillAreaID: strPtr("skill_math"), IsActive: true,
	}
	activity, account := testFixture(def, nil)
	store := newFakeStore(activity, account)
	store.skillCounts["skill_math"] = 4
	svc := newTestRewardService(store, &AtomicApplier{})

	if _, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{}); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if got := store.skillCounts["skill_math"]; got != 5 {
		t.Errorf("skill count = %d, want 5", got)
	}
	if got := store.masteryTiers["skill_math"]; got != shared.MasteryGrowing {
		t.Errorf("mastery tier = %q, want %q (5th completion)", got, shared.MasteryGrowing)
	}
}

func TestApproveGoalContributionAndFreeze(t *testing.T) {
	def := model.ActivityDefinition{ID: "def-1", Name: "Dishes", XPReward: 40, CoinReward: 4, AdventurePoints: 15, IsActive: true}
	activity, account := testFixture(def, nil)
	store := newFakeStore(activity, account)
	store.goal = &model.FamilyGoal{
		ID:            "goal-1",
		GuardianID:    testGuardianID,
		PointsTarget:  100,
		PointsCurrent: 90,
		Status:        shared.GoalActive,
	}
	svc := newTestRewardService(store, &AtomicApplier{})

	resp, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if resp.GoalProgress == nil {
		t.Fatal("GoalProgress = nil, want contribution recorded")
	}
	if resp.GoalProgress.PointsCurrent != 105 || !resp.GoalProgress.Achieved {
		t.Errorf("GoalProgress = %+v, want 105/100 achieved", resp.GoalProgress)
	}
	if store.goal.Status != shared.GoalAchieved {
		t.Errorf("goal status = %s, want achieved", store.goal.Status)
	}
	if account.AdventurePoints != 15 {
		t.Errorf("account adventure points = %d, want 15", account.AdventurePoints)
	}

	// Achieved goals are frozen: the next approval contributes nothing.
	activity2 := &model.SubmittedActivity{
		ID: "activity-2", AccountID: testAccountID, DefinitionID: def.ID,
		Status: shared.StatusPending, SubmittedAt: time.Now(), Definition: def,
	}
	store.activity = activity2

	resp2, err := svc.Approve("activity-2", testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
	if err != nil {
		t.Fatalf("second Approve() error = %v", err)
	}
	if resp2.GoalProgress != nil {
		t.Errorf("GoalProgress = %+v, want nil against a frozen goal", resp2.GoalProgress)
	}
	if store.goal.PointsCurrent != 105 {
		t.Errorf("goal points = %d, want 105 (frozen)", store.goal.PointsCurrent)
	}
}

func TestApproveRecognitionNote(t *testing.T) {
	def := model.ActivityDefinition{ID: "def-1", Name: "Dishes", XPReward: 40, CoinReward: 4, IsActive: true}
	activity, account := testFixture(def, nil)
	store := newFakeStore(activity, account)
	svc := newTestRewardService(store, &AtomicApplier{})

	req := dto.ApproveActivityRequest{RecognitionNote: "Great hustle today"}
	if _, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, req); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if len(store.notes) != 1 {
		t.Fatalf("persisted notes = %d, want 1", len(store.notes))
	}
	if store.notes[0].Note != "Great hustle today" || store.notes[0].ReviewerID != testGuardianID {
		t.Errorf("note = %+v, want reviewer and text preserved", store.notes[0])
	}
}

func TestApproveLevelUpReported(t *testing.T) {
	def := model.ActivityDefinition{ID: "def-1", Name: "Dishes", XPReward: 40, CoinReward: 4, IsActive: true}
	activity, account := testFixture(def, nil)
	account.XP = 90
	store := newFakeStore(activity, account)
	svc := newTestRewardService(store, &AtomicApplier{})

	resp, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if resp.NewXP != 130 {
		t.Errorf("NewXP = %d, want 130", resp.NewXP)
	}
	if resp.NewLevel != 2 || !resp.LeveledUp {
		t.Errorf("level = %d leveledUp = %v, want 2 true", resp.NewLevel, resp.LeveledUp)
	}
}

func TestRejectZeroesRewards(t *testing.T) {
	def := model.ActivityDefinition{ID: "def-1", Name: "Dishes", XPReward: 40, CoinReward: 4, IsActive: true}
	activity, account := testFixture(def, nil)
	store := newFakeStore(activity, account)
	svc := newTestRewardService(store, &AtomicApplier{})

	resp, err := svc.Reject(testActivityID, testGuardianID, shared.RoleGuardian, dto.RejectActivityRequest{Reason: "not finished"})
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	if resp.Status != shared.StatusRejected {
		t.Errorf("status = %s, want rejected", resp.Status)
	}
	if resp.EarnedXP != 0 || resp.EarnedCoins != 0 {
		t.Errorf("earned = (%d, %d), want (0, 0)", resp.EarnedXP, resp.EarnedCoins)
	}
	if account.XP != 0 || account.Coins != 0 {
		t.Errorf("account balances = (%d, %d), want untouched", account.XP, account.Coins)
	}

	// A rejected activity cannot be approved afterwards.
	_, err = svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusNotFound {
		t.Errorf("Approve() after reject error = %v, want 404 AppError", err)
	}
}

func TestStepwiseApplierPartialFailure(t *testing.T) {
	def := model.ActivityDefinition{
		ID: "def-1", Name: "Math Drill", XPReward: 50, CoinReward: 5,
		SkillAreaID: strPtr("skill_math"), IsActive: true,
	}
	activity, account := testFixture(def, nil)
	store := newFakeStore(activity, account)
	store.failOn["IncrementSkillProgress"] = fmt.Errorf("connection reset")
	svc := newTestRewardService(store, &StepwiseApplier{})

	resp, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
	if err != nil {
		t.Fatalf("Approve() error = %v, stepwise partial failure must not surface", err)
	}

	// The transition and the steps before the failure stand.
	if activity.Status != shared.StatusApproved {
		t.Errorf("activity status = %s, want approved", activity.Status)
	}
	if account.XP != 50 {
		t.Errorf("account XP = %d, want 50", account.XP)
	}
	if resp.Activity.EarnedXP != 50 {
		t.Errorf("EarnedXP = %d, want 50", resp.Activity.EarnedXP)
	}
	if got := store.skillCounts["skill_math"]; got != 0 {
		t.Errorf("skill count = %d, want 0 (step failed)", got)
	}
}

func TestAtomicApplierRollsBackOnStepFailure(t *testing.T) {
	// The fake store cannot roll back, so assert the applier surfaces the
	// step failure instead of swallowing it.
	def := model.ActivityDefinition{
		ID: "def-1", Name: "Math Drill", XPReward: 50, CoinReward: 5,
		SkillAreaID: strPtr("skill_math"), IsActive: true,
	}
	activity, account := testFixture(def, nil)
	store := newFakeStore(activity, account)
	store.failOn["IncrementSkillProgress"] = fmt.Errorf("connection reset")
	svc := newTestRewardService(store, &AtomicApplier{})

	_, err := svc.Approve(testActivityID, testGuardianID, shared.RoleGuardian, dto.ApproveActivityRequest{})
	if err == nil {
		t.Fatal("Approve() succeeded, want step failure surfaced on the atomic path")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("error = %v, want 500 AppError", err)
	}
}
