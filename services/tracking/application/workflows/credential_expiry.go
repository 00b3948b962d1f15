// Package workflows holds the Temporal workflows for the tracking context.
//
// The credential expiry sweep runs on a schedule (see cmd/worker) and
// deactivates connections whose ad platform access token has passed its
// expiry. Deactivation keeps the record for re-authorization but makes the
// pipeline skip the shop instead of burning transport calls on a token the
// platform will reject.
package workflows

import (
	"context"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ghuser/signalbridge/pkg/logger"
	"github.com/ghuser/signalbridge/services/tracking/domain/models"
	"github.com/ghuser/signalbridge/services/tracking/domain/repositories"
)

// TaskQueueTracking is the Temporal task queue for tracking workflows.
const TaskQueueTracking = "tracking"

// CredentialExpirySweepResult reports what one sweep did.
type CredentialExpirySweepResult struct {
	Examined    int `json:"examined"`
	Deactivated int `json:"deactivated"`
}

// CredentialExpiryActivities are the sweep's side-effecting steps.
// Temporal owns the retries; the activities stay thin over the repository.
type CredentialExpiryActivities struct {
	repo repositories.ConnectionRepository
	log  logger.Logger
}

// NewCredentialExpiryActivities returns activities backed by the given repository.
func NewCredentialExpiryActivities(repo repositories.ConnectionRepository, log logger.Logger) *CredentialExpiryActivities {
	return &CredentialExpiryActivities{repo: repo, log: log}
}

// ListExpiredShops returns the shop domains of active connections whose
// credential expired before the cutoff.
func (a *CredentialExpiryActivities) ListExpiredShops(ctx context.Context, cutoff time.Time) ([]string, error) {
	conns, err := a.repo.ListExpiring(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	shops := make([]string, 0, len(conns))
	for _, conn := range conns {
		shops = append(shops, conn.Shop.String())
	}
	return shops, nil
}

// DeactivateConnection marks one shop's connection inactive.
func (a *CredentialExpiryActivities) DeactivateConnection(ctx context.Context, shop string) error {
	if err := a.repo.Deactivate(ctx, models.ShopDomain(shop)); err != nil {
		return err
	}
	a.log.InfoContext(ctx, "connection deactivated, credential expired", "shop", shop)
	return nil
}

// CredentialExpirySweep is the workflow entry point. It lists expired
// connections as of workflow time and deactivates each one. Shops that fail
// to deactivate are retried by the activity policy and, failing that, picked
// up again on the next scheduled run.
func CredentialExpirySweep(ctx workflow.Context) (*CredentialExpirySweepResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 3,
		},
	})

	var acts *CredentialExpiryActivities
	cutoff := workflow.Now(ctx).UTC()

	var shops []string
	if err := workflow.ExecuteActivity(ctx, acts.ListExpiredShops, cutoff).Get(ctx, &shops); err != nil {
		return nil, err
	}

	result := &CredentialExpirySweepResult{Examined: len(shops)}
	for _, shop := range shops {
		if err := workflow.ExecuteActivity(ctx, acts.DeactivateConnection, shop).Get(ctx, nil); err != nil {
			workflow.GetLogger(ctx).Warn("deactivate failed, will retry next sweep", "shop", shop, "error", err)
			continue
		}
		result.Deactivated++
	}
	return result, nil
}
