package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const androidChannel = "teammatch_connections"

// Message is one push to one device token
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
	// CollapseKey lets a newer push replace an older one on the device.
	CollapseKey string
}

// Sender delivers a batch of messages. The returned slice holds one entry
// per message, nil for successful sends.
type Sender interface {
	SendEach(ctx context.Context, msgs []Message) ([]error, error)
}

type Client struct {
	msgClient *messaging.Client
	logger    *zap.Logger
}

func NewClient(ctx context.Context, logger *zap.Logger, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	} else {
		logger.Warn("No Firebase credentials file provided, falling back to application default credentials")
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &Client{msgClient: msgClient, logger: logger}, nil
}

// SendEach sends msgs in one FCM batch call
func (c *Client) SendEach(ctx context.Context, msgs []Message) ([]error, error) {
	if len(msgs) == 0 {
		return nil, nil
	}

	batch := make([]*messaging.Message, len(msgs))
	for i, m := range msgs {
		batch[i] = toFirebase(m)
	}

	resp, err := c.msgClient.SendEach(ctx, batch)
	if err != nil {
		return nil, err
	}

	errs := make([]error, len(msgs))
	for i, r := range resp.Responses {
		if !r.Success {
			errs[i] = r.Error
		}
	}
	c.logger.Debug("FCM batch sent",
		zap.Int("success", resp.SuccessCount),
		zap.Int("failure", resp.FailureCount),
	)
	return errs, nil
}

func toFirebase(m Message) *messaging.Message {
	msg := &messaging.Message{
		Token: m.Token,
		Notification: &messaging.Notification{
			Title: m.Title,
			Body:  m.Body,
		},
		Data: m.Data,
		Android: &messaging.AndroidConfig{
			Priority:    "high",
			CollapseKey: m.CollapseKey,
			Notification: &messaging.AndroidNotification{
				ChannelID: androidChannel,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound:    "default",
					ThreadID: m.Data["event_id"],
				},
			},
		},
	}
	if m.CollapseKey != "" {
		msg.APNS.Headers = map[string]string{"apns-collapse-id": m.CollapseKey}
	}
	return msg
}
