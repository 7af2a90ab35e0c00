package auth

import (
	"context"

	"desicargo-backend/internal/models"

	"github.com/sirupsen/logrus"
)

// Notifier delivers account emails.
type Notifier interface {
	SendVerification(ctx context.Context, u *models.User, link string) error
	SendPasswordReset(ctx context.Context, u *models.User, link string) error
	SendInvite(ctx context.Context, u *models.User, link string) error
}

// LogNotifier writes the links to the log instead of sending mail.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (n LogNotifier) send(kind string, u *models.User, link string) error {
	n.Log.WithFields(logrus.Fields{
		"kind":    kind,
		"user_id": u.ID,
		"email":   u.Email,
		"link":    link,
	}).Info("account notice")
	return nil
}

func (n LogNotifier) SendVerification(ctx context.Context, u *models.User, link string) error {
	return n.send("verify_email", u, link)
}

func (n LogNotifier) SendPasswordReset(ctx context.Context, u *models.User, link string) error {
	return n.send("password_reset", u, link)
}

func (n LogNotifier) SendInvite(ctx context.Context, u *models.User, link string) error {
	return n.send("invite", u, link)
}
