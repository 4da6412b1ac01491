package cron

import (
	"time"

	"github.com/caseclub-lab/backend/internal/entity"
	"github.com/caseclub-lab/backend/internal/repository"
	"github.com/caseclub-lab/backend/pkg/xcontext"
)

// ExpireRequestsCronJob sweeps fulfillment requests that no moderator
// reviewed in time. Expired requests release their inventory entry back to
// available, so the owner can claim again or sell.
type ExpireRequestsCronJob struct {
	requestRepo   repository.RequestRepository
	inventoryRepo repository.InventoryRepository
	interval      time.Duration
}

func NewExpireRequestsCronJob(
	requestRepo repository.RequestRepository,
	inventoryRepo repository.InventoryRepository,
	interval time.Duration,
) *ExpireRequestsCronJob {
	return &ExpireRequestsCronJob{
		requestRepo:   requestRepo,
		inventoryRepo: inventoryRepo,
		interval:      interval,
	}
}

func (job *ExpireRequestsCronJob) Do(ctx xcontext.Context) {
	deadline := time.Now().Add(-ctx.Configs().Request.ExpireAfter)
	requests, err := job.requestRepo.GetPendingBefore(ctx, deadline)
	if err != nil {
		ctx.Logger().Errorf("Cannot get overdue requests: %v", err)
		return
	}

	for i := range requests {
		job.expire(ctx, &requests[i])
	}
}

func (job *ExpireRequestsCronJob) expire(ctx xcontext.Context, request *entity.FulfillmentRequest) {
	ctx.BeginTx()
	defer ctx.RollbackTx()

	expired, err := job.requestRepo.Resolve(
		ctx, request.ID, entity.RequestExpired, "", "No review before deadline")
	if err != nil {
		ctx.Logger().Errorf("Cannot expire request %s: %v", request.Code, err)
		return
	}

	// A moderator resolved it between the sweep query and now.
	if !expired {
		return
	}

	released, err := job.inventoryRepo.Transition(
		ctx, request.InventoryID, entity.InventoryProcessing, entity.InventoryAvailable)
	if err != nil {
		ctx.Logger().Errorf("Cannot release inventory of request %s: %v", request.Code, err)
		return
	}

	if !released {
		ctx.Logger().Errorf("Inventory entry %s is not processing while request %s was pending",
			request.InventoryID, request.Code)
		return
	}

	ctx.CommitTx()
	ctx.Logger().Infof("Request %s expired, prize released", request.Code)
}

func (job *ExpireRequestsCronJob) RunNow() bool {
	return true
}

func (job *ExpireRequestsCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
