package handler

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/heidericklucas/slack-toxicity-monitor/internal/logger"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/metrics"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/model"
)

// warning holds the message template for one verdict category. The workspace
// this monitor runs in is Portuguese-speaking, so the templates are too.
type warning struct {
	category model.Category
	template string // one %s verb: the author's user ID
}

var (
	explicitThreatWarning = warning{
		category: model.CategoryThreat,
		template: ":rotating_light: <@%s>, sua mensagem contém uma ameaça explícita. Esse tipo de linguagem não é apropriado.",
	}
	threatWarning = warning{
		category: model.CategoryThreat,
		template: ":rotating_light: <@%s>, sua mensagem contém uma ameaça. Esse tipo de linguagem não é apropriado.",
	}
	coerciveWarning = warning{
		category: model.CategoryCoercive,
		template: ":warning: <@%s>, sua mensagem contém autoridade excessiva. Por favor, mantenha o respeito.",
	}
	abusiveWarning = warning{
		category: model.CategoryAbusive,
		template: ":warning: <@%s>, sua mensagem contém linguagem abusiva ou ofensiva. Por favor, mantenha o respeito.",
	}
)

func warningTemplate(category model.Category) warning {
	switch category {
	case model.CategoryThreat:
		return threatWarning
	case model.CategoryCoercive:
		return coerciveWarning
	default:
		return abusiveWarning
	}
}

// postWarning mentions the author in the originating channel. A delivery
// failure is logged and not retried; a missed warning is non-critical.
func (h *SlackHandler) postWarning(ctx context.Context, msg model.Message, w warning) {
	text := fmt.Sprintf(w.template, msg.UserID)
	_, _, err := h.api.PostMessageContext(ctx, msg.ChannelID, slack.MsgOptionText(text, false))
	if err != nil {
		logger.GetLogger().Error("failed to post warning",
			zap.String("channel", msg.ChannelID),
			zap.String("user", msg.UserID),
			zap.Error(err))
		return
	}
	metrics.WarningsTotal.WithLabelValues(string(w.category)).Inc()
	logger.GetLogger().Info("warning posted",
		zap.String("channel", msg.ChannelID),
		zap.String("user", msg.UserID),
		zap.String("category", string(w.category)))
}
