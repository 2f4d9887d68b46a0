// Package handler implements the CodePipeline action that flushes a CloudFront
// distribution and reports the outcome to the pipeline.
package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.smartmachine.io/awsci-invalidation/pkg/cdn"
	"go.smartmachine.io/awsci-invalidation/pkg/util"
	"go.uber.org/zap"
)

// Invalidator evicts every cached path of a distribution.
type Invalidator interface {
	Invalidate(ctx context.Context, distributionID string) (*cdn.Result, error)
}

// Reporter marks a pipeline job as succeeded or failed.
type Reporter interface {
	ReportSuccess(ctx context.Context, jobID, summary, externalID string) error
	ReportFailure(ctx context.Context, jobID, message string) error
}

type Options struct {
	DistributionID string
	Invalidator    Invalidator
	// Reporter is required by Handle. HandleResource does not report.
	Reporter       Reporter
	Log            *zap.SugaredLogger
}

type Handler struct {
	distributionID string
	invalidator    Invalidator
	reporter       Reporter
	log            *zap.SugaredLogger
}

type Response struct {
	StatusCode int `json:"statusCode"`
}

func New(opts Options) *Handler {
	if opts.Invalidator == nil {
		panic("handler: Invalidator is required")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handler{
		distributionID: opts.DistributionID,
		invalidator:    opts.Invalidator,
		reporter:       opts.Reporter,
		log:            log,
	}
}

// Handle invalidates the distribution and reports the result for the job in
// event. It returns an error only when no result could be reported.
func (h *Handler) Handle(ctx context.Context, event events.CodePipelineJobEvent) (*Response, error) {
	job := event.CodePipelineJob
	log := h.log.With("JobID", job.ID)

	// The event also carries artifact credentials, so it is never logged whole.
	log.Infow("CodePipeline Job Received", "AccountID", job.AccountID, "DistributionID", h.distributionID)

	if h.reporter == nil {
		return nil, fmt.Errorf("handler has no pipeline reporter for job %s", job.ID)
	}

	if job.ID == "" {
		log.Errorw("CodePipeline job id missing from event")
		return nil, util.NewError("CodePipeline.job id missing from event", http.StatusBadRequest)
	}

	result, err := h.invalidator.Invalidate(ctx, h.distributionID)
	if err == nil {
		summary := fmt.Sprintf("invalidation %s of %s on %s is %s", result.ID, cdn.AllPaths, h.distributionID, result.Status)
		err = h.reporter.ReportSuccess(ctx, job.ID, summary, result.ID)
		if err == nil {
			log.Infow("Cache invalidation reported", "InvalidationID", result.ID, "Status", result.Status)
			return &Response{StatusCode: http.StatusOK}, nil
		}
	}

	util.LogAWSError(log, "Cache invalidation failed", err)

	if rerr := h.reporter.ReportFailure(ctx, job.ID, util.FailureMessage(err)); rerr != nil {
		return nil, fmt.Errorf("report failure of job %s (%v): %w", job.ID, err, rerr)
	}

	return &Response{StatusCode: http.StatusInternalServerError}, nil
}
