package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"github.com/heidericklucas/slack-toxicity-monitor/internal/logger"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/metrics"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/model"
)

// HandleRequest is the Slack Events API endpoint. It verifies the request
// signature, answers URL verification challenges, and acknowledges message
// events immediately; the moderation round trips run in a goroutine so the
// response stays inside Slack's delivery timeout.
func (h *SlackHandler) HandleRequest(c *gin.Context) {
	logger := logger.GetLogger()

	// Read request body
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		logger.Error("empty request body")
		c.JSON(200, gin.H{"error": "empty request body"})
		return
	}

	// Verify the request signature before touching the payload. The verifier
	// also rejects timestamps outside the 5-minute replay window.
	if err := h.verifySignature(c.Request.Header, body); err != nil {
		metrics.AuthFailuresTotal.Inc()
		logger.Warn("invalid request signature", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid request signature"})
		return
	}

	// Slack re-delivers an event when the first acknowledgment was slow;
	// re-processing would classify and possibly warn about the same message
	// twice. Checked only after the signature so a forged request cannot buy
	// itself a 200 with a retry header.
	if retryNum := c.GetHeader("X-Slack-Retry-Num"); retryNum != "" {
		metrics.EventsTotal.WithLabelValues("retry").Inc()
		logger.Info("slack retry request",
			zap.String("retry_num", retryNum),
			zap.String("retry_reason", c.GetHeader("X-Slack-Retry-Reason")))
		c.String(http.StatusOK, "ok (retry skipped)")
		return
	}

	// Parse the Slack event
	eventsAPIEvent, err := slackevents.ParseEvent(
		json.RawMessage(body),
		slackevents.OptionNoVerifyToken(),
	)
	if err != nil {
		logger.Error("failed to parse slack event", zap.Error(err))
		c.JSON(200, gin.H{"error": "failed to parse slack event"})
		return
	}

	// Handle URL verification challenge
	if eventsAPIEvent.Type == slackevents.URLVerification {
		metrics.EventsTotal.WithLabelValues("url_verification").Inc()
		var challenge *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			logger.Error("failed to unmarshal challenge", zap.Error(err))
			c.JSON(400, gin.H{"error": "failed to parse challenge"})
			return
		}
		c.Header("Content-Type", "text/plain")
		c.String(200, string(body))
		return
	}

	// Handle event callbacks
	if eventsAPIEvent.Type == slackevents.CallbackEvent {
		innerEvent := eventsAPIEvent.InnerEvent
		switch event := innerEvent.Data.(type) {
		case *slackevents.MessageEvent:
			metrics.EventsTotal.WithLabelValues("message").Inc()
			h.handleMessageEvent(event)
		default:
			metrics.EventsTotal.WithLabelValues("other").Inc()
			logger.Warn("unsupported event type", zap.String("event_type", fmt.Sprintf("%T", innerEvent.Data)))
		}
	}

	// Return success response
	c.JSON(200, gin.H{"status": "ok"})
}

func (h *SlackHandler) verifySignature(header http.Header, body []byte) error {
	sv, err := slack.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return err
	}
	if _, err := sv.Write(body); err != nil {
		return err
	}
	return sv.Ensure()
}

// handleMessageEvent filters out events that must not trigger moderation and
// hands the rest to the asynchronous pipeline.
func (h *SlackHandler) handleMessageEvent(ev *slackevents.MessageEvent) {
	// Ignore messages from bots to prevent loops
	if ev.BotID != "" || ev.SubType == "bot_message" {
		return
	}
	// Edits and deletions carry no new text to classify
	if ev.SubType == "message_changed" || ev.SubType == "message_deleted" {
		return
	}
	if ev.Text == "" {
		return
	}

	// The signing check already proved the event came from Slack, so a bot_id
	// is normally set on our own messages. The auth.test check covers apps
	// that post as a user.
	if botUserID, err := h.botID(); err != nil {
		logger.GetLogger().Warn("could not resolve bot identity, skipping self check", zap.Error(err))
	} else if ev.User == botUserID {
		return
	}

	msg := model.MessageFromEvent(ev)

	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), h.processTimeout)
		defer cancel()
		h.moderate(ctx, msg)
	}()
}
