// Package cdn creates CloudFront invalidations.
package cdn

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudfront"
	"github.com/aws/aws-sdk-go/service/cloudfront/cloudfrontiface"
	"github.com/fatih/structs"
	uuid "github.com/satori/go.uuid"
	"go.smartmachine.io/awsci-invalidation/pkg/util"
	"go.uber.org/zap"
)

// AllPaths is the only path pattern this package invalidates.
const AllPaths = "/*"

// Result describes an invalidation CloudFront has accepted. Acceptance does
// not mean the purge has finished.
type Result struct {
	ID         string
	Status     string
	Location   string
	StatusCode int
}

type Invalidator struct {
	svc cloudfrontiface.CloudFrontAPI
	log *zap.SugaredLogger

	// CallerReference returns the deduplication token for each request.
	CallerReference func() string
}

func New(svc cloudfrontiface.CloudFrontAPI, log *zap.SugaredLogger) *Invalidator {
	return &Invalidator{
		svc:             svc,
		log:             log,
		CallerReference: NewCallerReference,
	}
}

// NewCallerReference returns a token unique to this call, even for two calls
// within the same nanosecond.
func NewCallerReference() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.NewV4().String())
}

// Invalidate asks CloudFront to evict every cached path of distributionID.
// Any response other than 201 Created is an error.
func (i *Invalidator) Invalidate(ctx context.Context, distributionID string) (*Result, error) {
	createInvalidationRequest := &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(distributionID),
		InvalidationBatch: &cloudfront.InvalidationBatch{
			CallerReference: aws.String(i.CallerReference()),
			Paths: &cloudfront.Paths{
				Quantity: aws.Int64(1),
				Items:    []*string{aws.String(AllPaths)},
			},
		},
	}

	i.log.Infow("CloudFront CreateInvalidation Request", "Request", structs.Map(createInvalidationRequest))

	req, createInvalidationResponse := i.svc.CreateInvalidationRequest(createInvalidationRequest)
	req.SetContext(ctx)

	if err := req.Send(); err != nil {
		util.LogAWSError(i.log, "CloudFront CreateInvalidation Error", err)
		return nil, fmt.Errorf("cloudfront create invalidation for %s: %w", distributionID, err)
	}

	statusCode := 0
	if req.HTTPResponse != nil {
		statusCode = req.HTTPResponse.StatusCode
	}

	i.log.Infow("CloudFront CreateInvalidation Response",
		"StatusCode", statusCode,
		"Response", structs.Map(createInvalidationResponse),
	)

	if statusCode != http.StatusCreated {
		return nil, util.NewError(
			fmt.Sprintf("cloudfront create invalidation for %s not accepted: status %d", distributionID, statusCode),
			statusCode,
		)
	}

	result := &Result{
		Location:   aws.StringValue(createInvalidationResponse.Location),
		StatusCode: statusCode,
	}
	if inv := createInvalidationResponse.Invalidation; inv != nil {
		result.ID = aws.StringValue(inv.Id)
		result.Status = aws.StringValue(inv.Status)
	}

	return result, nil
}
