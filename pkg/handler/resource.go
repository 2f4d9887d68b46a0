package handler

import (
	"context"

	"github.com/aws/aws-lambda-go/cfn"
)

// HandleResource backs a CloudFormation custom resource that flushes the
// distribution whenever the resource is created or updated. The optional
// DistributionId property overrides the configured distribution.
func (h *Handler) HandleResource(ctx context.Context, event cfn.Event) (physicalResourceID string, data map[string]interface{}, err error) {
	log := h.log.With("RequestType", event.RequestType, "LogicalResourceID", event.LogicalResourceID)
	log.Infow("CloudFormation Event Received", "StackID", event.StackID, "ResourceType", event.ResourceType)

	switch event.RequestType {
	case cfn.RequestCreate, cfn.RequestUpdate:
		distributionID := h.distributionID
		if id, ok := event.ResourceProperties["DistributionId"].(string); ok && id != "" {
			distributionID = id
		}
		physicalResourceID = distributionID

		result, ierr := h.invalidator.Invalidate(ctx, distributionID)
		if ierr != nil {
			log.Errorw("Cache invalidation failed", "DistributionID", distributionID, "Error", ierr)
			err = ierr
			return
		}

		log.Infow("Cache invalidation created", "DistributionID", distributionID, "InvalidationID", result.ID)

		data = map[string]interface{}{
			"InvalidationId": result.ID,
			"Status":         result.Status,
		}

	case cfn.RequestDelete:
		physicalResourceID = event.PhysicalResourceID
	}

	return
}
