package worker

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
	"github.com/nghiakieran/ute-shop-sub000/internal/logic"
)

// PaymentWindowSweeper periodically closes out bank-transfer bills whose
// payment window lapsed. The logic layer decides per bill whether to recover
// a missed settlement or cancel with compensation.
type PaymentWindowSweeper struct {
	billLogic logic.BillLogic
	logger    *zap.Logger
	interval  time.Duration
}

// NewPaymentWindowSweeper creates a new instance of the sweeper.
func NewPaymentWindowSweeper(billLogic logic.BillLogic, logger *zap.Logger, cfg *conf.WorkerConfig) *PaymentWindowSweeper {
	interval := time.Duration(cfg.PaymentWindow.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &PaymentWindowSweeper{
		billLogic: billLogic,
		logger:    logger.Named("PaymentWindowSweeper"),
		interval:  interval,
	}
}

// Start begins the worker's polling loop. It respects the context for
// graceful shutdown.
func (w *PaymentWindowSweeper) Start(ctx context.Context) {
	w.logger.Info("Payment window sweeper started", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)
		case <-ctx.Done():
			w.logger.Info("Payment window sweeper shutting down")
			return
		}
	}
}

func (w *PaymentWindowSweeper) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Panic recovered in payment window sweeper",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
		}
	}()

	cancelled, err := w.billLogic.SweepExpiredPayments(ctx)
	if err != nil {
		w.logger.Error("Failed to sweep expired payments", zap.Error(err))
		return
	}
	if cancelled > 0 {
		w.logger.Info("Swept expired bank transfers", zap.Int("cancelled", cancelled))
	}
}

var _ Worker = (*PaymentWindowSweeper)(nil)
