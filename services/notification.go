// services/notification.go
package services

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// NotificationService publishes domain events to a redis channel that the
// delivery workers (push/email, out of this repo) subscribe to. Dispatch is
// fire-and-forget: a publish failure is logged and never rolls back or blocks
// the economic transaction that triggered it.
type NotificationService struct {
	appContext.DefaultService

	redis   *redis.Client
	channel string
}

const NOTIFICATION_SVC = "notification_svc"

func (svc NotificationService) Id() string {
	return NOTIFICATION_SVC
}

func (svc *NotificationService) Configure(ctx *appContext.Context) error {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	svc.redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	})

	svc.channel = os.Getenv("NOTIFICATION_CHANNEL")
	if svc.channel == "" {
		svc.channel = "quest.events"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *NotificationService) Start() error {
	if svc.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := svc.redis.Ping(ctx).Result(); err != nil {
			// Notification delivery is optional; the app still runs.
			log.WithError(err).Warn("Redis unreachable, notifications disabled")
			svc.redis = nil
		}
	}
	return nil
}

func (svc *NotificationService) Shutdown() {
	if svc.redis != nil {
		_ = svc.redis.Close()
	}
}

type notificationEvent struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// PublishEvent sends the event in a goroutine so callers never wait on redis.
func (svc *NotificationService) PublishEvent(event string, payload interface{}) {
	if svc.redis == nil {
		return
	}

	go func() {
		body, err := json.Marshal(notificationEvent{
			Event:     event,
			Payload:   payload,
			Timestamp: time.Now().Unix(),
		})
		if err != nil {
			log.WithError(err).WithField("event", event).Error("Failed to marshal notification event")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := svc.redis.Publish(ctx, svc.channel, body).Err(); err != nil {
			log.WithError(err).WithField("event", event).Warn("Failed to publish notification event")
		}
	}()
}
