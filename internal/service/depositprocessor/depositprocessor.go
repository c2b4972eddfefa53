package depositprocessor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/accountshop/internal/logger"
	"github.com/nkiryanov/accountshop/internal/models"
	"github.com/nkiryanov/accountshop/internal/service/payment"
)

const (
	defaultCountWorkers    = 4                // Number of workers asking the payment provider
	defaultProduceInterval = 10 * time.Second // Interval for fetching pending deposits
	defaultBatchSize       = 100              // Pending deposits fetched per tick
)

type paymentClient interface {
	GetDepositStatus(ctx context.Context, id uuid.UUID) (payment.DepositStatus, error)
}

type depositService interface {
	ListPending(ctx context.Context, limit int) ([]models.Deposit, error)
	Settle(ctx context.Context, id uuid.UUID, status string) (models.Deposit, error)
}

// Zero values are replaced with defaults
type Config struct {
	CountWorkers int
	Interval     time.Duration
	BatchSize    int
}

// Processor settles pending deposits with the payment provider
type Processor struct {
	consumer *Consumer
	producer *Producer
	logger   logger.Logger
}

func New(cfg Config, client paymentClient, depositService depositService, l logger.Logger) *Processor {
	if cfg.CountWorkers <= 0 {
		cfg.CountWorkers = defaultCountWorkers
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultProduceInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	return &Processor{
		consumer: &Consumer{
			countWorkers:   cfg.CountWorkers,
			client:         client,
			depositService: depositService,
			logger:         l,
		},
		producer: &Producer{
			interval:       cfg.Interval,
			batchSize:      cfg.BatchSize,
			depositService: depositService,
			logger:         l,
		},
		logger: l,
	}
}

// Start processing; the returned channel is closed when everything stopped after ctx is done
func (p *Processor) Process(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})

	depositChan := make(chan models.Deposit)

	producerStopped := p.producer.Produce(ctx, depositChan)
	consumerStopped := p.consumer.Consume(ctx, depositChan)

	go func() {
		defer close(idleStopped)
		defer close(depositChan)
		<-producerStopped
		<-consumerStopped
		p.logger.Debug("DepositProcessor stopped")
	}()

	return idleStopped
}
