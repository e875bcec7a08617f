// Package main serves the enhancement HTTP API from AWS Lambda behind an
// API Gateway HTTP API (payload format 2.0).
//
// Secrets missing from the environment are read from SSM Parameter Store at
// cold start. Source and enhanced images are stored in MEDIA_BUCKET_NAME and
// handed to the publisher as presigned URLs.
package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/fpang/venue-enhance/internal/bootstrap"
	"github.com/fpang/venue-enhance/internal/config"
	"github.com/fpang/venue-enhance/internal/httpapi"
	"github.com/fpang/venue-enhance/internal/logging"
)

var version = "dev"

var (
	adapter   *httpadapter.HandlerAdapterV2
	coldStart = true
)

func init() {
	initStart := time.Now()
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	e, err := bootstrap.Build(context.Background(), cfg, bootstrap.Options{
		Name:   "enhance-lambda",
		UseSSM: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build engine")
	}
	adapter = httpadapter.NewV2(httpapi.NewRouter(e, version))

	log.Debug().
		Dur("initDuration", time.Since(initStart)).
		Str("function", os.Getenv("AWS_LAMBDA_FUNCTION_NAME")).
		Msg("Handler ready")
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if coldStart {
		coldStart = false
		log.Info().Str("function", "enhance-lambda").Msg("Cold start, first invocation")
	}
	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handler)
}
