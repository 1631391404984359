package worker

import (
	"github.com/spec-kit/employee-service/internal/service"
)

// StartNotificationWorker registers notification handlers and, when a
// webhook worker is given, starts its delivery loop.
func StartNotificationWorker(notificationService *service.NotificationService, webhook *WebhookWorker) {
	if notificationService == nil {
		return
	}
	if webhook != nil {
		webhook.Start()
	}
	notificationService.RegisterHandlers()
}
