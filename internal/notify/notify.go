// Package notify delivers best-effort push notifications through Expo.
// Delivery failures are logged and dropped; nothing in the request path
// depends on a push going out.
package notify

import (
	"context"
	"fmt"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"github.com/sirupsen/logrus"

	"healthtrack/backend/internal/models"
)

var categoryNames = map[models.RelationCategory]string{
	models.CategoryMedical:     "medical team",
	models.CategoryFamily:      "family circle",
	models.CategoryPeerSupport: "peer support group",
}

// ExpoNotifier sends pushes to the device token stored on the user record.
type ExpoNotifier struct {
	client *expo.PushClient
	log    *logrus.Entry
}

func NewExpoNotifier() *ExpoNotifier {
	return &ExpoNotifier{
		client: expo.NewPushClient(nil),
		log:    logrus.WithField("component", "notify"),
	}
}

// RequestReceived notifies to that from invited them into a friend group.
func (n *ExpoNotifier) RequestReceived(ctx context.Context, to, from *models.User, cat models.RelationCategory) {
	title := "New friend invitation"
	body := fmt.Sprintf("%s invited you to their %s", displayName(from), categoryNames[cat])
	n.push(to, title, body)
}

// RequestResolved notifies to that by accepted or refused their invitation.
func (n *ExpoNotifier) RequestResolved(ctx context.Context, to, by *models.User, accepted bool) {
	verb := "accepted"
	if !accepted {
		verb = "declined"
	}
	n.push(to, "Friend invitation "+verb, fmt.Sprintf("%s %s your invitation", displayName(by), verb))
}

func (n *ExpoNotifier) push(to *models.User, title, body string) {
	if to.PushToken == "" {
		return
	}

	token, err := expo.NewExponentPushToken(to.PushToken)
	if err != nil {
		n.log.WithField("user", to.ID).WithError(err).Warn("invalid push token")
		return
	}

	resp, err := n.client.Publish(&expo.PushMessage{
		To:       []expo.ExponentPushToken{token},
		Title:    title,
		Body:     body,
		Sound:    "default",
		Priority: expo.DefaultPriority,
	})
	if err != nil {
		n.log.WithField("user", to.ID).WithError(err).Warn("push delivery failed")
		return
	}
	if err := resp.ValidateResponse(); err != nil {
		n.log.WithField("user", to.ID).WithError(err).Warn("push rejected by Expo")
	}
}

func displayName(u *models.User) string {
	if u.Name != "" {
		return u.Name
	}
	if u.Account != "" {
		return u.Account
	}
	return "A user"
}
