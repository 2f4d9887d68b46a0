// Package bootstrap wires a Handler from the environment for the Lambda entry points.
package bootstrap

import (
	"context"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudfront"
	"github.com/aws/aws-sdk-go/service/codepipeline"
	awsssm "github.com/aws/aws-sdk-go/service/ssm"
	"go.smartmachine.io/awsci-invalidation/pkg/cdn"
	"go.smartmachine.io/awsci-invalidation/pkg/config"
	"go.smartmachine.io/awsci-invalidation/pkg/handler"
	"go.smartmachine.io/awsci-invalidation/pkg/pipeline"
	"go.smartmachine.io/awsci-invalidation/pkg/ssm"
	"go.smartmachine.io/awsci-invalidation/pkg/util"
	"go.uber.org/zap"
)

// NewHandler loads configuration, resolves the distribution id and builds a
// Handler backed by real AWS clients. Call it once per cold start.
func NewHandler(ctx context.Context) (*handler.Handler, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := util.NewLogger(cfg.Debug)
	if err != nil {
		return nil, nil, err
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		util.LogAWSError(log, "AWS Session Error", err)
		return nil, log, err
	}

	distributionID, err := cfg.DistributionIDFrom(ctx, ssm.New(awsssm.New(sess), log))
	if err != nil {
		log.Errorw("unable to resolve distribution id", "Error", err)
		return nil, log, err
	}

	log.Infow("configured", "DistributionID", distributionID)

	return handler.New(handler.Options{
		DistributionID: distributionID,
		Invalidator:    cdn.New(cloudfront.New(sess), log),
		Reporter:       pipeline.New(codepipeline.New(sess), log),
		Log:            log,
	}), log, nil
}
