package services

import (
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hearthquest/quest_api/dto"
	"github.com/hearthquest/quest_api/model"
	"github.com/hearthquest/quest_api/shared"
)

type AuthService struct {
	context.DefaultService

	sqlSvc *PostgresService
	jwtSvc *JWTService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if req.Role == shared.RoleStudent && req.GuardianID != nil {
		guardian, err := svc.sqlSvc.GetUserByID(*req.GuardianID)
		if err != nil {
			return nil, shared.NewBadRequestError(err, "Guardian not found")
		}
		if guardian.Role != shared.RoleGuardian {
			return nil, shared.NewBadRequestError(nil, "Linked user is not a guardian")
		}
	}

	if _, err := svc.sqlSvc.GetUserByEmail(req.Email); err == nil {
		return nil, shared.NewConflictError(fmt.Errorf("email taken"), "Email is already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to hash password")
	}

	userID, _ := uuid.NewV7()
	now := time.Now()
	user := &model.User{
		ID:         userID.String(),
		Email:      req.Email,
		Username:   req.Username,
		Password:   string(hashed),
		Role:       req.Role,
		GuardianID: req.GuardianID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := svc.sqlSvc.CreateUser(user); err != nil {
		return nil, shared.NewInternalError(err, "Failed to create user")
	}

	resp := &dto.RegisterResponse{UserID: user.ID}

	// Students get a balance account at registration; it lives for the
	// account's lifetime.
	if req.Role == shared.RoleStudent {
		account, err := svc.sqlSvc.CreateAccount(&model.Account{
			UserID:     user.ID,
			GuardianID: req.GuardianID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return nil, shared.NewInternalError(err, "Failed to create account")
		}
		resp.AccountID = account.ID
		log.WithFields(log.Fields{"user_id": user.ID, "account_id": account.ID}).Info("Student account created")
	}

	return resp, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := svc.sqlSvc.GetUserByEmail(req.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
		}
		return nil, shared.NewInternalError(err, "Failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	if err := svc.sqlSvc.UpdateLastLogin(user.ID); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}

	return &dto.LoginResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   pair.ExpiresIn,
		UserID:      user.ID,
		Role:        user.Role,
		IssuedAt:    time.Now(),
	}, nil
}

// RequiredAuth verifies the bearer token and stores the caller's identity and
// role in the request locals.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return shared.NewUnauthorizedError(err, "Unauthorized")
		}

		userID, role, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.NewUnauthorizedError(err, "Invalid JWT token")
		}
		if userID == "" {
			return shared.NewUnauthorizedError(nil, "Invalid user ID in token")
		}

		c.Locals(shared.UserID, userID)
		c.Locals(shared.UserRole, role)
		return c.Next()
	}
}

// RequireRole gates a route group on the caller's role. Admins pass every
// gate.
func (svc *AuthService) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		callerRole, _ := c.Locals(shared.UserRole).(string)
		if callerRole != role && callerRole != shared.RoleAdmin {
			return shared.NewForbiddenError(nil, "Insufficient permissions")
		}
		return c.Next()
	}
}
