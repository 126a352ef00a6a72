package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/hearthquest/quest_api/services/handlers"
	"github.com/hearthquest/quest_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc    *AuthService
	rewardSvc  *RewardService
	accountSvc *AccountService
	familySvc  *FamilyService
	catalogSvc *CatalogService

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.rewardSvc = svc.Service(REWARD_SVC).(*RewardService)
	svc.accountSvc = svc.Service(ACCOUNT_SVC).(*AccountService)
	svc.familySvc = svc.Service(FAMILY_SVC).(*FamilyService)
	svc.catalogSvc = svc.Service(CATALOG_SVC).(*CatalogService)

	svc.app = fiber.New(fiber.Config{
		AppName:      "HearthQuest API",
		JSONEncoder:  shared.JSONEncoder,
		JSONDecoder:  shared.JSONDecoder,
		ErrorHandler: svc.handleError,
	})

	svc.app.Use(recover.New())
	svc.app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("CORS_ORIGINS"),
		AllowCredentials: false,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))
	svc.app.Use(MonitoringMiddleware())

	svc.registerRoutes()

	log.WithField("port", svc.port).Info("HTTP service listening")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

func (svc *HttpService) registerRoutes() {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	activityHandler := handlers.NewActivityHandler(svc.rewardSvc, svc.accountSvc)
	accountHandler := handlers.NewAccountHandler(svc.accountSvc)
	familyHandler := handlers.NewFamilyHandler(svc.familySvc)
	catalogHandler := handlers.NewCatalogHandler(svc.catalogSvc)

	svc.app.Get("/ping", svc.ping)

	v1 := svc.app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	// Credential endpoints get a tight per-IP limit.
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
	})
	v1.Post("/register", authLimiter, authHandler.Register)
	v1.Post("/login", authLimiter, authHandler.Login)

	authed := v1.Group("", svc.authSvc.RequiredAuth())

	authed.Get("/definitions", catalogHandler.List)
	authed.Get("/definitions/:id", catalogHandler.Get)

	student := authed.Group("", svc.authSvc.RequireRole(shared.RoleStudent))
	student.Post("/activities", activityHandler.Submit)
	student.Get("/accounts/me", accountHandler.MyProgress)

	guardian := authed.Group("", svc.authSvc.RequireRole(shared.RoleGuardian))
	guardian.Post("/activities/:id/approve", activityHandler.Approve)
	guardian.Post("/activities/:id/reject", activityHandler.Reject)
	guardian.Get("/activities/pending", activityHandler.PendingReviews)
	guardian.Get("/accounts", accountHandler.FamilyProgress)
	guardian.Get("/accounts/:id", accountHandler.Progress)
	guardian.Get("/accounts/:id/activities", accountHandler.ActivityHistory)
	guardian.Post("/goals", familyHandler.CreateGoal)
	guardian.Get("/goals", familyHandler.ListGoals)
	guardian.Get("/goals/active", familyHandler.ActiveGoal)

	admin := authed.Group("/admin", svc.authSvc.RequireRole(shared.RoleAdmin))
	admin.Post("/definitions", catalogHandler.Create)
	admin.Put("/definitions/:id", catalogHandler.Update)
	admin.Delete("/definitions/:id", catalogHandler.Deactivate)
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")
	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled request error")
	return shared.ResponseJSON(c, http.StatusInternalServerError, "Internal server error", nil)
}
