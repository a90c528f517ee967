//go:build lambda

package main

import (
	"context"
	"log"

	"cardtrack/internal/app"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
)

var (
	pipeline *app.App
	adapter  *httpadapter.HandlerAdapter
)

func init() {
	a, err := app.Setup(context.Background(), "")
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	pipeline = a
	adapter = httpadapter.New(a.Handler())
}

func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if ce := pipeline.Log.Check(zap.DebugLevel, "received lambda request"); ce != nil {
		ce.Write(zap.String("path", req.Path), zap.String("request", spew.Sdump(req)))
	}
	return adapter.ProxyWithContext(ctx, req)
}

func main() {
	defer pipeline.Close()
	lambda.Start(Handler)
}
