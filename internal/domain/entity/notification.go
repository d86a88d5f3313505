package entity

// NotificationAction is what the user did with a notification.
type NotificationAction struct {
	// Kind is one of NotificationActionDefault, NotificationActionDismiss or NotificationActionOther.
	Kind string
	// ID is the custom action identifier when Kind is NotificationActionOther.
	ID string
}

const (
	NotificationActionDefault = "default"
	NotificationActionDismiss = "dismiss"
	NotificationActionOther   = "other"
)

// NotificationResponse is the user's reaction to a notification, routed
// back to the app through a deep link.
type NotificationResponse struct {
	NotificationID string
	Action         NotificationAction
	UserText       string
	UserInfo       map[string]string
}
