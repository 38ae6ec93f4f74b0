package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/douhashi/houki/internal/github"
	"github.com/douhashi/houki/internal/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "一定間隔でスイープを繰り返し実行",
		Long: `sweep.intervalで指定された間隔でスイープを繰り返し実行します。
SIGINTまたはSIGTERMを受け取るまでフォアグラウンドで動作します。

外部スケジューラ（cronやCI）がない環境向けのモードです。
個々のスイープの失敗はログに記録されるだけで、ループは継続します。`,
		RunE: runWatch,
	}

	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "アクションを適用せずログ出力のみ行う")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFunc()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	client, err := newGitHubClientFunc(cfg.GitHub.Token)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	w, err := watcher.NewSweepWatcher(cfg.Sweep.Interval, appLog)
	if err != nil {
		return fmt.Errorf("failed to create sweep watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 認証エラーはループを止める
	var authErr error
	w.Start(ctx, func(ctx context.Context) error {
		summary, err := executeSweep(ctx, cfg, client, appLog)
		if err != nil {
			if github.IsAuthenticationError(err) {
				authErr = err
				stop()
			}
			return err
		}
		logSummary(appLog, summary)
		return nil
	})

	return authErr
}
