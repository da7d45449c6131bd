package usecases

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"investor-onboarding.backend/internal/domain/entities"
	"investor-onboarding.backend/pkg/logger"
	"investor-onboarding.backend/pkg/mail"
)

// Notifier renders and sends account emails. Delivery failures are logged
// and never surface to the caller.
type Notifier struct {
	mailer   mail.Mailer
	settings Settings
}

// NewNotifier creates a notifier. A nil mailer disables delivery.
func NewNotifier(mailer mail.Mailer, settings Settings) *Notifier {
	return &Notifier{mailer: mailer, settings: settings.withDefaults()}
}

// SendVerification mails the email verification link.
func (n *Notifier) SendVerification(ctx context.Context, user *entities.User, token string) {
	if n == nil {
		return
	}
	link := n.link("/verify-email", url.Values{"email": {user.Email}, "token": {token}})
	body := fmt.Sprintf(
		"Hi %s,\n\nConfirm your email address for %s by opening the link below:\n\n%s\n\nThe link expires in %s.\n",
		greeting(user), n.settings.AppName, link, n.settings.EmailVerificationTTL,
	)
	n.send(ctx, user, "Verify your email address", body, "verification")
}

// SendPasswordReset mails the password reset link carrying the envelope.
func (n *Notifier) SendPasswordReset(ctx context.Context, user *entities.User, token string) {
	if n == nil {
		return
	}
	link := n.link("/reset-password", url.Values{"token": {token}})
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your %s account. Open the link below to choose a new password:\n\n%s\n\nThe link expires in %s. If you did not request this, ignore this email.\n",
		greeting(user), n.settings.AppName, link, n.settings.PasswordResetTTL,
	)
	n.send(ctx, user, "Reset your password", body, "password_reset")
}

func (n *Notifier) link(path string, query url.Values) string {
	return n.settings.FrontendURL + path + "?" + query.Encode()
}

func (n *Notifier) send(ctx context.Context, user *entities.User, subject, body, kind string) {
	if n.mailer == nil {
		return
	}
	err := n.mailer.Send(ctx, mail.Message{To: user.Email, Subject: subject, Body: body})
	if err != nil {
		logger.Warn(ctx, "Failed to send email",
			zap.String("kind", kind),
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
}

func greeting(user *entities.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	return user.Email
}
