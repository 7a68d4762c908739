package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/rp-admin-service/internal/events"
	"github.com/spec-kit/rp-admin-service/internal/service"
)

// StartNotificationWorker registers notification handlers and returns a stop
// function that waits up to grace for in-flight deliveries.
func StartNotificationWorker(notificationService *service.NotificationService, dispatcher events.Dispatcher, logger *zap.Logger, grace time.Duration) func() {
	if notificationService == nil {
		return func() {}
	}
	notificationService.RegisterHandlers()

	return func() {
		if dispatcher == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		if err := dispatcher.Wait(ctx); err != nil {
			logger.Warn("notification deliveries still in flight at shutdown", zap.Error(err))
		}
	}
}
