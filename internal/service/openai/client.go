package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"go.uber.org/zap"

	"github.com/heidericklucas/slack-toxicity-monitor/internal/logger"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/model"
)

// classifierSystemPrompt fixes the instruction and the response contract: the
// model must answer with a JSON object holding per-category scores and the
// list of triggered labels.
const classifierSystemPrompt = "You are a toxicity classifier for workplace chat messages. Given the conversation context below, " +
	"return a JSON object with a `scores` dictionary (toxic category: float between 0 and 1) and `triggered` list of triggered labels. " +
	"Toxicity categories include: `aggression`, `harassment`, `threat`, `coercive_authority`, and `condescension`. " +
	"The category `coercive_authority` refers to subtle or indirect language that pressures, monitors, or corrects someone's behavior by " +
	"implying hierarchical control, using policy speak, surveillance language, or piling on questions that make the recipient feel micromanaged or distrusted. " +
	"However, if the message is from a manager responding to previous unprofessional behavior, and the tone is proportionate and necessary for accountability or clarity, it should not be flagged."

// classifierTemperature keeps the verdicts stable across re-deliveries of the
// same message.
const classifierTemperature = float32(0.2)

type Client struct {
	client         *azopenai.Client
	deploymentName string
}

func NewClient(endpoint, apiKey, deploymentName string) (*Client, error) {
	keyCredential := azcore.NewKeyCredential(apiKey)
	client, err := azopenai.NewClientWithKeyCredential(endpoint, keyCredential, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		client:         client,
		deploymentName: deploymentName,
	}, nil
}

// Classify sends the conversation context to the classifier deployment and
// parses the verdict payload out of the completion.
func (c *Client) Classify(ctx context.Context, contextText string) (*model.Classification, error) {
	messages := []azopenai.ChatRequestMessageClassification{
		&azopenai.ChatRequestSystemMessage{
			Content: azopenai.NewChatRequestSystemMessageContent(classifierSystemPrompt),
		},
		&azopenai.ChatRequestUserMessage{
			Content: azopenai.NewChatRequestUserMessageContent(contextText),
		},
	}

	logger.GetLogger().Debug("sending context to classifier", zap.Int("context_length", len(contextText)))
	resp, err := c.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(c.deploymentName),
		Messages:       messages,
		N:              to.Ptr[int32](1),
		Temperature:    to.Ptr(classifierTemperature),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat completion: %v", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return nil, fmt.Errorf("no choices returned from chat completion")
	}

	raw := *resp.Choices[0].Message.Content
	logger.GetLogger().Debug("classifier response", zap.String("content", raw))

	return ParseClassification(raw)
}

// ParseClassification decodes the classifier reply. Models occasionally wrap
// the JSON payload in a Markdown code fence; strip it before decoding.
func ParseClassification(raw string) (*model.Classification, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	var cls model.Classification
	if err := json.Unmarshal([]byte(cleaned), &cls); err != nil {
		return nil, fmt.Errorf("failed to parse classifier response: %v", err)
	}
	return &cls, nil
}
