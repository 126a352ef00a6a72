package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	RoleAdmin    = "admin"
	RoleGuardian = "guardian"
	RoleStudent  = "student"

	// SystemReviewer marks approvals applied by the engine itself for
	// definitions that do not require guardian review.
	SystemReviewer = "system"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	GoalActive   = "active"
	GoalAchieved = "achieved"

	MasteryExploring = "exploring"
	MasteryGrowing   = "growing"
	MasteryConfident = "confident"
	MasteryTeaching  = "teaching"
)
