package worker

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/nghiakieran/ute-shop-sub000/internal/conf"
	"github.com/nghiakieran/ute-shop-sub000/internal/dao/repository"
)

// VoucherExpirer periodically flips ACTIVE vouchers past their expiry date to
// EXPIRED so a stale code fails at quote time instead of at redemption.
type VoucherExpirer struct {
	voucherRepo repository.VoucherRepository
	logger      *zap.Logger
	interval    time.Duration
}

// NewVoucherExpirer creates a new VoucherExpirer.
func NewVoucherExpirer(voucherRepo repository.VoucherRepository, logger *zap.Logger, cfg *conf.WorkerConfig) *VoucherExpirer {
	interval := time.Duration(cfg.VoucherExpirer.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Hour
	}
	return &VoucherExpirer{
		voucherRepo: voucherRepo,
		logger:      logger.Named("VoucherExpirer"),
		interval:    interval,
	}
}

// Start begins the ticker to periodically run the expiration task.
func (w *VoucherExpirer) Start(ctx context.Context) {
	w.logger.Info("Voucher expirer started", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.expire(ctx)
		case <-ctx.Done():
			w.logger.Info("Voucher expirer shutting down")
			return
		}
	}
}

func (w *VoucherExpirer) expire(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Panic recovered in voucher expirer",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
		}
	}()

	expired, err := w.voucherRepo.ExpireVouchers(ctx, time.Now())
	if err != nil {
		w.logger.Error("Failed to expire vouchers", zap.Error(err))
		return
	}
	if expired > 0 {
		w.logger.Info("Expired vouchers", zap.Int64("count", expired))
	}
}

var _ Worker = (*VoucherExpirer)(nil)
