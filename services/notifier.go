package services

import (
	"context"
	"log/slog"
)

// Notifier is the fire-and-forget collaborator invoked after approvals and
// completions. Failures are logged and never roll back the match write.
type Notifier interface {
	SendNotification(ctx context.Context, userID int, subject, message string) error
	AwardBadge(ctx context.Context, userID int, badge string) error
	CheckAchievements(ctx context.Context, userID int) error
	// ReputationWarning flags a team whose evidence the adjudicator
	// suspects was falsified. The profile-side consequence lives outside
	// this engine.
	ReputationWarning(ctx context.Context, teamName, reason string) error
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a Notifier that only records events. Used when no
// delivery channel is configured and in tests.
func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) SendNotification(_ context.Context, userID int, subject, message string) error {
	n.logger.Info("notification", slog.Int("user_id", userID), slog.String("subject", subject), slog.String("message", message))
	return nil
}

func (n *logNotifier) AwardBadge(_ context.Context, userID int, badge string) error {
	n.logger.Info("badge awarded", slog.Int("user_id", userID), slog.String("badge", badge))
	return nil
}

func (n *logNotifier) CheckAchievements(_ context.Context, userID int) error {
	n.logger.Info("achievement check queued", slog.Int("user_id", userID))
	return nil
}

func (n *logNotifier) ReputationWarning(_ context.Context, teamName, reason string) error {
	n.logger.Warn("reputation warning", slog.String("team", teamName), slog.String("reason", reason))
	return nil
}
