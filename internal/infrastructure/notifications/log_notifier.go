package notifications

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"rawwealthy.backend/internal/domain/entities"
	"rawwealthy.backend/pkg/logger"
)

// LogNotifier records password reset deliveries in the application log.
// Nothing reaches the user: deliver is a no-op until a mail sender replaces
// this notifier. The raw token never reaches the log; only the reset link
// host and expiry do.
type LogNotifier struct {
	resetURL string
	deliver  func(ctx context.Context, to, link string) error
}

// NewLogNotifier creates a notifier whose links point at resetURL
func NewLogNotifier(resetURL string) *LogNotifier {
	return &LogNotifier{
		resetURL: strings.TrimRight(resetURL, "/"),
		deliver:  func(context.Context, string, string) error { return nil },
	}
}

// SendPasswordReset builds the reset link and hands it to the delivery hook
func (n *LogNotifier) SendPasswordReset(ctx context.Context, user *entities.User, rawToken string, expiresAt time.Time) error {
	link := n.resetURL + "/" + url.PathEscape(rawToken)
	if err := n.deliver(ctx, user.Email, link); err != nil {
		return err
	}

	logger.Info(ctx, "Password reset link issued",
		zap.String("userId", user.ID.String()),
		zap.String("resetHost", hostOf(n.resetURL)),
		zap.Time("expiresAt", expiresAt),
	)
	return nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
