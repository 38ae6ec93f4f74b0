package watcher

import (
	"context"
	"errors"
	"time"

	"github.com/douhashi/houki/internal/logger"
)

// SweepFunc は1回のスイープを実行する関数
type SweepFunc func(ctx context.Context) error

// SweepWatcher は一定間隔でスイープを繰り返し実行する
type SweepWatcher struct {
	interval time.Duration
	logger   logger.Logger
}

// NewSweepWatcher は新しいSweepWatcherを作成する
func NewSweepWatcher(interval time.Duration, log logger.Logger) (*SweepWatcher, error) {
	if interval < time.Minute {
		return nil, errors.New("interval must be at least 1 minute")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	return &SweepWatcher{
		interval: interval,
		logger:   log,
	}, nil
}

// GetInterval は現在の実行間隔を返す
func (w *SweepWatcher) GetInterval() time.Duration {
	return w.interval
}

// Start はスイープの定期実行を開始する。コンテキストがキャンセルされるまで
// ブロックする。個々のスイープの失敗はログに記録されるだけで、ループは継続する
func (w *SweepWatcher) Start(ctx context.Context, sweep SweepFunc) {
	w.logger.Info("Starting sweep watcher", "interval", w.interval.String())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// 初回実行
	w.runOnce(ctx, sweep)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping sweep watcher")
			return
		case <-ticker.C:
			w.runOnce(ctx, sweep)
		}
	}
}

// runOnce は1回のスイープを実行し、エラーをログに記録する
func (w *SweepWatcher) runOnce(ctx context.Context, sweep SweepFunc) {
	if err := sweep(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		w.logger.Error("Sweep failed", "error", err)
	}
}
