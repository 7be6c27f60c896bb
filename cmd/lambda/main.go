package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"github.com/heidericklucas/slack-toxicity-monitor/internal/config"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/handler"
	"github.com/heidericklucas/slack-toxicity-monitor/internal/logger"
)

var (
	slackHandler *handler.SlackHandler
	ginLambda    *ginadapter.GinLambda
)

func initHandler() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return err
	}
	slackHandler, err = handler.NewSlackHandler(cfg)
	if err != nil {
		return err
	}
	ginLambda = ginadapter.New(slackHandler.Router())
	return nil
}

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp, err := ginLambda.ProxyWithContext(ctx, req)

	// Lambda freezes the container as soon as the response is returned, which
	// would leave moderation goroutines suspended mid-flight. Drain them
	// before handing the response back; Slack's re-delivery of slow acks is
	// absorbed by the retry dedupe in the event handler.
	slackHandler.Drain()

	return resp, err
}

func main() {
	if err := initHandler(); err != nil {
		log.Fatalf("Failed to initialize handler: %v", err)
	}
	defer logger.Sync()
	lambda.Start(handleRequest)
}
