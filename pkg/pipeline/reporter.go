// Package pipeline reports job results back to CodePipeline.
package pipeline

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/codepipeline"
	"github.com/aws/aws-sdk-go/service/codepipeline/codepipelineiface"
	"github.com/fatih/structs"
	"go.smartmachine.io/awsci-invalidation/pkg/util"
	"go.uber.org/zap"
)

// maxSummary is the CodePipeline limit on ExecutionDetails.Summary.
const maxSummary = 2048

type Reporter struct {
	svc codepipelineiface.CodePipelineAPI
	log *zap.SugaredLogger
}

func New(svc codepipelineiface.CodePipelineAPI, log *zap.SugaredLogger) *Reporter {
	return &Reporter{svc: svc, log: log}
}

// ReportSuccess marks jobID as succeeded. summary and externalID are optional.
func (r *Reporter) ReportSuccess(ctx context.Context, jobID, summary, externalID string) error {
	putJobSuccessRequest := &codepipeline.PutJobSuccessResultInput{
		JobId: aws.String(jobID),
	}
	if summary != "" || externalID != "" {
		details := &codepipeline.ExecutionDetails{}
		if summary != "" {
			details.Summary = aws.String(util.Truncate(summary, maxSummary))
		}
		if externalID != "" {
			details.ExternalExecutionId = aws.String(externalID)
		}
		putJobSuccessRequest.ExecutionDetails = details
	}

	r.log.Infow("CodePipeline PutJobSuccessResult Request", "Request", structs.Map(putJobSuccessRequest))

	_, err := r.svc.PutJobSuccessResultWithContext(ctx, putJobSuccessRequest)
	if err != nil {
		util.LogAWSError(r.log, "CodePipeline PutJobSuccessResult Error", err)
		return fmt.Errorf("codepipeline put job success result for %s: %w", jobID, err)
	}

	r.log.Infow("CodePipeline PutJobSuccessResult Response", "JobID", jobID)
	return nil
}

// ReportFailure marks jobID as failed with message as the failure detail.
func (r *Reporter) ReportFailure(ctx context.Context, jobID, message string) error {
	if message == "" {
		message = util.FailureMessage(nil)
	}

	putJobFailureRequest := &codepipeline.PutJobFailureResultInput{
		JobId: aws.String(jobID),
		FailureDetails: &codepipeline.FailureDetails{
			Type:    aws.String(codepipeline.FailureTypeJobFailed),
			Message: aws.String(util.Truncate(message, util.MaxFailureMessage)),
		},
	}

	r.log.Infow("CodePipeline PutJobFailureResult Request", "Request", structs.Map(putJobFailureRequest))

	_, err := r.svc.PutJobFailureResultWithContext(ctx, putJobFailureRequest)
	if err != nil {
		util.LogAWSError(r.log, "CodePipeline PutJobFailureResult Error", err)
		return fmt.Errorf("codepipeline put job failure result for %s: %w", jobID, err)
	}

	r.log.Infow("CodePipeline PutJobFailureResult Response", "JobID", jobID)
	return nil
}
