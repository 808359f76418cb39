package fcm

import (
	"context"
	"sync"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/domain"
)

const pushTimeout = 10 * time.Second

type push struct {
	title string
	body  string
}

// PushNotifier sends device notifications for connection changes a user
// should hear about while the app is closed. Other change kinds are ignored.
type PushNotifier struct {
	sender  Sender
	devices domain.DeviceRepository
	logger  *zap.Logger
	// isUnregistered reports whether a send error means the token is dead.
	isUnregistered func(error) bool

	wg sync.WaitGroup
}

func NewPushNotifier(sender Sender, devices domain.DeviceRepository, logger *zap.Logger) *PushNotifier {
	return &PushNotifier{
		sender:         sender,
		devices:        devices,
		logger:         logger,
		isUnregistered: messaging.IsUnregistered,
	}
}

// Publish returns immediately; sends run in the background.
func (n *PushNotifier) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	recipients, msg, ok := pushFor(ev)
	if !ok {
		return nil
	}

	data := map[string]string{
		"kind":     string(ev.Kind),
		"event_id": ev.EventID.String(),
	}
	if ev.Connection != nil {
		data["connection_id"] = ev.Connection.ID.String()
	}
	collapseKey := "connection:" + ev.EventID.String() + ":" + pairKey(ev.SourceUserID, ev.TargetUserID)

	bg := context.WithoutCancel(ctx)
	for _, userID := range recipients {
		n.wg.Add(1)
		go func(userID uuid.UUID) {
			defer n.wg.Done()
			ctx, cancel := context.WithTimeout(bg, pushTimeout)
			defer cancel()
			n.sendToUser(ctx, userID, msg, data, collapseKey)
		}(userID)
	}
	return nil
}

// Wait blocks until every background send has finished.
func (n *PushNotifier) Wait() {
	n.wg.Wait()
}

func (n *PushNotifier) sendToUser(ctx context.Context, userID uuid.UUID, msg push, data map[string]string, collapseKey string) {
	tokens, err := n.devices.ListDeviceTokens(ctx, userID)
	if err != nil {
		n.logger.Warn("Failed to load device tokens", zap.String("userID", userID.String()), zap.Error(err))
		return
	}
	if len(tokens) == 0 {
		return
	}

	msgs := make([]Message, len(tokens))
	for i, token := range tokens {
		msgs[i] = Message{Token: token, Title: msg.title, Body: msg.body, Data: data, CollapseKey: collapseKey}
	}

	errs, err := n.sender.SendEach(ctx, msgs)
	if err != nil {
		n.logger.Error("Failed to send FCM batch", zap.String("userID", userID.String()), zap.Error(err))
		return
	}
	for i, err := range errs {
		switch {
		case err == nil:
		case n.isUnregistered(err):
			if err := n.devices.RemoveDeviceToken(ctx, tokens[i]); err != nil {
				n.logger.Warn("Failed to remove stale device token", zap.Error(err))
			}
		default:
			n.logger.Error("Failed to send FCM message", zap.String("userID", userID.String()), zap.Error(err))
		}
	}
}

// pushFor picks who gets a push for ev and what it says.
func pushFor(ev domain.ChangeEvent) ([]uuid.UUID, push, bool) {
	switch ev.Kind {
	case domain.ChangeInterestExpressed:
		return []uuid.UUID{ev.TargetUserID}, push{
			title: "Someone wants to team up",
			body:  "A participant is interested in teaming up with you.",
		}, true
	case domain.ChangeConnectionAccepted:
		return []uuid.UUID{ev.SourceUserID, ev.TargetUserID}, push{
			title: "It's a match!",
			body:  "You both want to team up. Say hello!",
		}, true
	}
	return nil, push{}, false
}

// pairKey is the same for both orderings of a pair
func pairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}
