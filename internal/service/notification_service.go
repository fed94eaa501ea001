package service

import (
	"context"

	"greenpulse"
	"greenpulse/internal/repository"
)

// Display strings for notification rows.
const (
	conditionNeedsWater = "Needs watering"
	conditionHealthy    = "Healthy"
	activityNotWatered  = "Not watered yet"
)

// NotificationService derives display rows from the stored reminder list.
// It holds no state of its own.
type NotificationService struct {
	notifications repository.Notifications
}

func NewNotificationService(notifications repository.Notifications) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Rows returns the user's notifications as render-ready rows, newest first.
func (s *NotificationService) Rows(ctx context.Context, email string) ([]greenpulse.NotificationRow, error) {
	if email == "" {
		return nil, ErrAuthRequired
	}
	list, err := s.notifications.List(ctx, email)
	if err != nil {
		return nil, err
	}
	rows := make([]greenpulse.NotificationRow, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		rows = append(rows, deriveRow(list[i]))
	}
	return rows, nil
}

// deriveRow maps one notification to its display row. The badge depends only
// on the type, the activity only on the watering action.
func deriveRow(n greenpulse.Notification) greenpulse.NotificationRow {
	condition := conditionHealthy
	if n.Type == greenpulse.NotifNeedWater {
		condition = conditionNeedsWater
	}
	activity := activityNotWatered
	if n.UserWatered && n.UserWateredAt != nil {
		activity = "Watered (" + n.UserWateredAt.Format("15:04:05") + ")"
	}
	return greenpulse.NotificationRow{
		Plant:     n.PlantName,
		Ts:        n.Ts,
		Condition: condition,
		Activity:  activity,
	}
}

// SearchService keeps the last plant search keyword scratch value.
type SearchService struct {
	scratch repository.Scratch
}

func NewSearchService(scratch repository.Scratch) *SearchService {
	return &SearchService{scratch: scratch}
}

func (s *SearchService) SaveKeyword(ctx context.Context, keyword string) error {
	return s.scratch.SaveSearch(ctx, keyword)
}

func (s *SearchService) LastKeyword(ctx context.Context) (string, error) {
	return s.scratch.LastSearch(ctx)
}
