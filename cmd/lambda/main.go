package main

import (
	"context"
	"log"
	"net/http"

	"portfolio-contact-api/config"
	"portfolio-contact-api/internal/app"
	"portfolio-contact-api/pkg/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

var httpAdapter *httpadapter.HandlerAdapterV2

func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Init(cfg.LogLevel)

	// Counters live per warm container unless Redis is configured
	application := app.New(context.Background(), cfg)

	// Create the HTTP adapter for API Gateway HTTP API (v2)
	httpAdapter = httpadapter.NewV2(http.Handler(application.Router))
}

func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return httpAdapter.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
