package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/heidericklucas/slack-toxicity-monitor/internal/config"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/logger"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/metrics"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/model"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/screen"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/service/openai"
)

// SlackAPI is the subset of the Slack Web API the monitor calls. *slack.Client
// satisfies it; tests substitute a fake to assert which outbound calls happen.
type SlackAPI interface {
	AuthTest() (*slack.AuthTestResponse, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
}

// Classifier produces a toxicity classification for a block of conversation
// text.
type Classifier interface {
	Classify(ctx context.Context, contextText string) (*model.Classification, error)
}

type SlackHandler struct {
	api            SlackAPI
	classifier     Classifier
	screener       *screen.Screener
	signingSecret  string
	processTimeout time.Duration
	historyLimit   int

	// The bot's own user ID is resolved lazily via auth.test so startup does
	// not depend on Slack being reachable. Failures are not cached; the next
	// message retries the lookup.
	botIDMu   sync.Mutex
	botUserID string

	// inflight tracks moderation goroutines so shutdown can drain them.
	inflight sync.WaitGroup
}

func NewSlackHandler(cfg *config.Config) (*SlackHandler, error) {
	aiClient, err := openai.NewClient(cfg.AzureOpenAIEndpoint, cfg.AzureOpenAIKey, cfg.AzureOpenAIDeployment)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %v", err)
	}

	return newSlackHandler(
		slack.New(cfg.SlackBotToken),
		aiClient,
		cfg.SlackSigningSecret,
		cfg.ProcessTimeout(),
		cfg.HistoryLimit,
	), nil
}

func newSlackHandler(api SlackAPI, classifier Classifier, signingSecret string, processTimeout time.Duration, historyLimit int) *SlackHandler {
	return &SlackHandler{
		api:            api,
		classifier:     classifier,
		screener:       screen.NewScreener(),
		signingSecret:  signingSecret,
		processTimeout: processTimeout,
		historyLimit:   historyLimit,
	}
}

// Router assembles the gin engine shared by the server and Lambda entrypoints.
func (h *SlackHandler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.String(200, "Slack Toxicity Monitor is running!")
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.POST("/slack/events", h.HandleRequest)

	return router
}

// Drain blocks until all in-flight moderation goroutines have finished.
func (h *SlackHandler) Drain() {
	h.inflight.Wait()
}

// botID returns the bot's own Slack user ID, resolving it on first use.
func (h *SlackHandler) botID() (string, error) {
	h.botIDMu.Lock()
	defer h.botIDMu.Unlock()
	if h.botUserID != "" {
		return h.botUserID, nil
	}
	resp, err := h.api.AuthTest()
	if err != nil {
		return "", fmt.Errorf("failed to get bot identity: %v", err)
	}
	h.botUserID = resp.UserID
	logger.GetLogger().Info("resolved bot identity", zap.String("user_id", resp.UserID))
	return h.botUserID, nil
}
