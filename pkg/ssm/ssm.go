package ssm

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/ssm/ssmiface"
	"github.com/fatih/structs"
	"go.smartmachine.io/awsci-invalidation/pkg/util"
	"go.uber.org/zap"
)

// Client reads configuration values from the SSM parameter store.
type Client struct {
	svc ssmiface.SSMAPI
	log *zap.SugaredLogger
}

func New(svc ssmiface.SSMAPI, log *zap.SugaredLogger) *Client {
	return &Client{svc: svc, log: log}
}

func (c *Client) GetParameter(ctx context.Context, name string) (string, error) {
	getParameterRequest := &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	}

	c.log.Infow("SSM GetParameter Request", "Request", structs.Map(getParameterRequest))

	getParameterResponse, err := c.svc.GetParameterWithContext(ctx, getParameterRequest)
	if err != nil {
		util.LogAWSError(c.log, "SSM GetParameter Error", err)
		return "", fmt.Errorf("ssm get parameter %s: %w", name, err)
	}

	// Values may be SecureStrings; log only the name and version.
	if getParameterResponse.Parameter == nil || aws.StringValue(getParameterResponse.Parameter.Value) == "" {
		c.log.Errorw("SSM parameter has no value", "Name", name)
		return "", fmt.Errorf("ssm parameter %s has no value", name)
	}

	c.log.Infow("SSM GetParameter Response",
		"Name", name,
		"Version", aws.Int64Value(getParameterResponse.Parameter.Version),
	)

	return aws.StringValue(getParameterResponse.Parameter.Value), nil
}
