package gateway

import (
	"context"
	"fmt"
	"time"

	httppkg "github.com/blazevtc/blazeride/internal/pkg/http"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/internal/pkg/retry"
	"github.com/blazevtc/blazeride/services/rides"
)

const defaultFCMEndpoint = "https://fcm.googleapis.com/fcm/send"

// PushGW delivers notifications through FCM. Delivery is best-effort;
// callers log and move on when it fails.
type PushGW struct {
	cfg     models.PushConfig
	client  *httppkg.Client
	retries retry.Config
}

// NewPushGW creates a new push gateway
func NewPushGW(cfg models.PushConfig) rides.Notifier {
	return &PushGW{
		cfg:     cfg,
		client:  httppkg.NewClient("", 10*time.Second),
		retries: retry.DefaultConfig(),
	}
}

type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Priority     string            `json:"priority"`
}

type fcmNotification struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	ChannelID string `json:"android_channel_id,omitempty"`
	Sound     string `json:"sound"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// Push sends a notification to the user's device topic.
func (g *PushGW) Push(ctx context.Context, userID int64, title, body string, data map[string]string) error {
	if g.cfg.ServerKey == "" {
		logger.Debug("push disabled, no FCM server key",
			logger.Int64("user_id", userID))
		return nil
	}

	endpoint := g.cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultFCMEndpoint
	}

	msg := fcmMessage{
		To: fmt.Sprintf("/topics/user_%d", userID),
		Notification: fcmNotification{
			Title:     title,
			Body:      body,
			ChannelID: g.cfg.ChannelID,
			Sound:     "default",
		},
		Data:     data,
		Priority: "high",
	}
	headers := map[string]string{
		"Authorization": "key=" + g.cfg.ServerKey,
	}

	err := retry.Do(ctx, g.retries, func(ctx context.Context) error {
		var resp fcmResponse
		if err := g.client.PostJSON(ctx, endpoint, headers, msg, &resp); err != nil {
			return err
		}
		if resp.Failure > 0 && resp.Success == 0 {
			return fmt.Errorf("fcm rejected the message")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("fcm send failed: %w", err)
	}
	return nil
}
