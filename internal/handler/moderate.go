package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/heidericklucas/slack-toxicity-monitor/internal/logger"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/metrics"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/model"
)

// historyAttempts bounds the conversations.history retries on rate limits.
const historyAttempts = 3

// moderate runs the per-message decision sequence: phrase screens, context
// fetch, classification, verdict, warning. Every failure is logged and ends
// the pipeline for this message only.
func (h *SlackHandler) moderate(ctx context.Context, msg model.Message) {
	log := logger.GetLogger().With(
		zap.String("channel", msg.ChannelID),
		zap.String("user", msg.UserID),
		zap.String("ts", msg.EventTS),
	)

	// Messages asserting legal rights are exempt from all toxicity checks.
	if h.screener.HasLegalJustification(msg.Text) {
		metrics.ScreenedTotal.WithLabelValues("legal_justification").Inc()
		log.Info("message contains legal justification, skipping")
		return
	}

	// Explicit threats warrant a warning without waiting for the classifier.
	if phrase, ok := h.screener.ExplicitThreat(msg.Text); ok {
		metrics.ScreenedTotal.WithLabelValues("explicit_threat").Inc()
		log.Info("explicit threat detected", zap.String("phrase", phrase))
		h.postWarning(ctx, msg, explicitThreatWarning)
		return
	}

	abusiveTerm, abusiveFlag := h.screener.AbusiveLanguage(msg.Text)
	if abusiveFlag {
		log.Info("abusive keyword detected", zap.String("term", abusiveTerm))
	}

	contextText := h.fetchConversationContext(ctx, msg)

	start := time.Now()
	cls, err := h.classifier.Classify(ctx, contextText)
	metrics.ClassificationLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		// Soft failure: no warning is posted and nothing propagates to Slack.
		metrics.ClassificationsTotal.WithLabelValues("error").Inc()
		log.Error("classification failed, dropping message", zap.Error(err))
		return
	}

	verdict := EvaluateClassification(cls, abusiveFlag)
	if !verdict.Toxic {
		metrics.ClassificationsTotal.WithLabelValues("clean").Inc()
		log.Info("no category matched above threshold, skipping")
		return
	}

	metrics.ClassificationsTotal.WithLabelValues("toxic").Inc()
	log.Info("toxic message detected",
		zap.String("category", string(verdict.Category)),
		zap.String("rationale", verdict.Rationale))
	h.postWarning(ctx, msg, warningTemplate(verdict.Category))
}

// fetchConversationContext assembles the recent channel history into the text
// block sent to the classifier. Slack rate limits are retried honoring
// Retry-After; any other failure falls back to the message text alone, since
// a verdict on a lone message is better than no verdict.
func (h *SlackHandler) fetchConversationContext(ctx context.Context, msg model.Message) string {
	log := logger.GetLogger()

	params := &slack.GetConversationHistoryParameters{
		ChannelID: msg.ChannelID,
		Latest:    msg.EventTS,
		Limit:     h.historyLimit,
		Inclusive: true,
	}

	var resp *slack.GetConversationHistoryResponse
	var err error
	for attempt := 0; attempt < historyAttempts; attempt++ {
		resp, err = h.api.GetConversationHistoryContext(ctx, params)
		if err == nil {
			break
		}

		var rateLimited *slack.RateLimitedError
		if !errors.As(err, &rateLimited) {
			log.Warn("failed to fetch conversation history", zap.Error(err))
			return msg.Text
		}

		log.Info("slack rate limited, retrying", zap.Duration("retry_after", rateLimited.RetryAfter))
		select {
		case <-time.After(rateLimited.RetryAfter):
		case <-ctx.Done():
			return msg.Text
		}
	}
	if err != nil {
		log.Warn("failed to fetch conversation history after retries", zap.Error(err))
		return msg.Text
	}

	// conversations.history returns newest first; the classifier reads the
	// conversation oldest first. Bot messages (including our own warnings)
	// are excluded.
	var parts []string
	for i := len(resp.Messages) - 1; i >= 0; i-- {
		m := resp.Messages[i]
		if m.BotID != "" || m.Text == "" {
			continue
		}
		if m.User == "" {
			parts = append(parts, m.Text)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", m.User, m.Text))
	}
	if len(parts) == 0 {
		return msg.Text
	}
	return strings.Join(parts, " ")
}
