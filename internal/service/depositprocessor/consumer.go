package depositprocessor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nkiryanov/accountshop/internal/apperrors"
	"github.com/nkiryanov/accountshop/internal/logger"
	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/service/payment"
)

type Consumer struct {
	countWorkers int

	// Provider may throttle us; then every worker waits until this moment (unix nano)
	waitUntil atomic.Int64

	client         paymentClient
	depositService depositService
	logger         logger.Logger
}

func (c *Consumer) Consume(ctx context.Context, in <-chan models.Deposit) <-chan struct{} {
	idleStopped := make(chan struct{})

	var wg sync.WaitGroup
	for range c.countWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker(ctx, in)
		}()
	}

	go func() {
		defer close(idleStopped)
		wg.Wait()
		c.logger.Debug("Consumer stopped")
	}()

	return idleStopped
}

func (c *Consumer) worker(ctx context.Context, in <-chan models.Deposit) {
	for {
		waitUntil := time.Unix(0, c.waitUntil.Load())
		if waitUntil.After(time.Now()) {
			c.logger.Debug("Worker is waiting for rate limit to reset", "wait_until", waitUntil)

			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Until(waitUntil)):
				continue
			}
		}

		select {
		case <-ctx.Done():
			return

		case deposit, ok := <-in:
			if !ok {
				c.logger.Debug("Consumer worker stopped, input channel closed")
				return
			}
			c.process(ctx, deposit)
		}
	}
}

func (c *Consumer) process(ctx context.Context, deposit models.Deposit) {
	status, err := c.client.GetDepositStatus(ctx, deposit.ID)
	var perr *payment.Error

	switch {
	case err == nil:
		switch status.Status {
		case payment.StatusApproved:
			c.settle(ctx, deposit, models.DepositStatusApproved)
		case payment.StatusRejected:
			c.settle(ctx, deposit, models.DepositStatusRejected)
		default:
			c.logger.Debug("Deposit is still pending", "deposit_id", deposit.ID, "status", status.Status)
		}

	case errors.As(err, &perr):
		switch perr.Code {
		case payment.CodeRetryAfter:
			c.logger.Info("Rate limit exceeded, waiting", "retry_after", perr.RetryAfter)
			c.waitUntil.Store(time.Now().Add(perr.RetryAfter).UnixNano())

		case payment.CodeNoContent:
			c.logger.Info("Payment provider doesn't know the deposit, reject it", "deposit_id", deposit.ID)
			c.settle(ctx, deposit, models.DepositStatusRejected)

		default:
			c.logger.Error("Payment provider failed", "error", err, "deposit_id", deposit.ID)
		}

	default:
		c.logger.Error("Unexpected error from payment provider", "error", err, "deposit_id", deposit.ID)
	}
}

func (c *Consumer) settle(ctx context.Context, deposit models.Deposit, status string) {
	_, err := c.depositService.Settle(ctx, deposit.ID, status)

	switch {
	case err == nil:
		c.logger.Info("Deposit settled", "deposit_id", deposit.ID, "status", status, "amount", deposit.Amount)
	case errors.Is(err, apperrors.ErrDepositAlreadyClosed):
		// Same deposit may be produced twice while the first one is in flight
		c.logger.Debug("Deposit already settled", "deposit_id", deposit.ID)
	default:
		c.logger.Error("Failed to settle deposit", "error", err, "deposit_id", deposit.ID, "status", status)
	}
}
