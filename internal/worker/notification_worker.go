package worker

import (
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
