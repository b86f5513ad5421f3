// Batch scoring Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"churn-retention-engine/internal/handlers"
	"churn-retention-engine/internal/utils"
)

func main() {
	_ = utils.InitLogger("info")
	defer utils.Sync()

	handler, err := handlers.NewScoreHandler(context.Background())
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}

	lambda.Start(handler.Handle)
}
