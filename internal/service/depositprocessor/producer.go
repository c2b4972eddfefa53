package depositprocessor

import (
	"context"
	"time"

	"github.com/nkiryanov/accountshop/internal/logger"
	"github.com/nkiryanov/accountshop/internal/models"
)

type Producer struct {
	interval       time.Duration
	batchSize      int
	depositService depositService
	logger         logger.Logger
}

func (p *Producer) Produce(ctx context.Context, out chan<- models.Deposit) <-chan struct{} {
	idleStopped := make(chan struct{})
	p.logger.Debug("Starting producer", "interval", p.interval, "batch_size", p.batchSize)

	go func() {
		defer close(idleStopped)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Debug("Producer stopped by context")
				return

			case <-ticker.C:
				deposits, err := p.depositService.ListPending(ctx, p.batchSize)
				if err != nil {
					p.logger.Error("Failed to list pending deposits", "error", err)
					continue
				}

				for _, deposit := range deposits {
					select {
					case <-ctx.Done():
						p.logger.Debug("Producer stopped by context while sending deposits")
						return
					case out <- deposit:
					}
				}
			}
		}
	}()

	return idleStopped
}
