package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.smartmachine.io/awsci-invalidation/pkg/bootstrap"
)

func main() {
	h, logger, err := bootstrap.NewHandler(context.Background())
	if err != nil {
		log.Fatalf("invalidation setup: %+v", err)
	}
	defer logger.Sync()

	lambda.Start(h.Handle)
}
