package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/constants"
	"github.com/blazevtc/blazeride/internal/pkg/logger"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/internal/pkg/realtime"
)

const maxChatTextLen = 1000

// RelayChat delivers a chat message to the other ride participant and
// echoes it to the sender's own topic so every device the sender has
// open stays in sync.
func (uc *rideUC) RelayChat(ctx context.Context, rideID, senderID int64, role, text, messageID string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return apperrors.Invalidf("chat text is required")
	}
	if len(text) > maxChatTextLen {
		return apperrors.Invalidf("chat text exceeds %d characters", maxChatTextLen)
	}

	ride, err := uc.rides.GetRide(ctx, rideID)
	if err != nil {
		return err
	}
	if err := validateParticipant(ride, senderID); err != nil {
		return err
	}
	if ride.Status != models.RideStatusAccepted && ride.Status != models.RideStatusInProgress {
		return apperrors.Conflictf("cannot chat on a %s ride", ride.Status)
	}

	sentAt := uc.now()
	if messageID == "" {
		messageID = fmt.Sprintf("%d-%d", rideID, sentAt.UnixMilli())
	}
	event := models.RideChatEvent{
		MessageID: messageID,
		RequestID: rideID,
		From:      role,
		SenderID:  senderID,
		Text:      text,
		SentAt:    sentAt,
	}

	if ride.DriverID == nil {
		return apperrors.Forbiddenf("ride %d has no driver to chat with", rideID)
	}

	var recipient int64
	if senderID == ride.CustomerID {
		recipient = *ride.DriverID
		uc.bc.Publish(realtime.DriverTopic(recipient), event)
		uc.publishToCustomer(ride, event)
	} else {
		recipient = ride.CustomerID
		uc.publishToCustomer(ride, event)
		uc.bc.Publish(realtime.DriverTopic(senderID), event)
	}

	if err := uc.notifier.Push(ctx, recipient, "New message", text,
		map[string]string{"ride_id": itoa(rideID), "type": constants.EventRideChat}); err != nil {
		logger.Debug("chat push failed",
			logger.Int64("user_id", recipient), logger.Err(err))
	}
	return nil
}
