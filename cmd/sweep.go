package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/douhashi/houki/internal/config"
	"github.com/douhashi/houki/internal/github"
	"github.com/douhashi/houki/internal/logger"
	"github.com/douhashi/houki/internal/sweeper"
	"github.com/spf13/cobra"
)

var dryRunFlag bool

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "stale Issue / PRのスイープを1回実行",
		Long: `オープンなIssueとPull Requestを走査し、ルールに基づいて
staleラベルの付与とクローズを実行します。

個々のアクションの失敗は致命的エラーとはせず、サマリに記録して
終了コード0で終了します。設定エラーと認証エラーのみ非0で終了します。

使用例:
  houki sweep                         # 設定ファイルのルールでスイープ
  houki sweep --repo owner/repo       # 対象リポジトリを指定
  houki sweep --dry-run               # 実行内容の確認のみ`,
		RunE: runSweep,
	}

	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "アクションを適用せずログ出力のみ行う")

	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
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

	summary, err := executeSweep(cmd.Context(), cfg, client, appLog)
	if err != nil {
		// 認証エラーのみ致命的エラーとして扱う
		if github.IsAuthenticationError(err) {
			return err
		}
		appLog.Error("Sweep aborted", "error", err)
		return nil
	}

	logSummary(appLog, summary)
	return nil
}

// executeSweep は1回のスイープを実行する: 取得→評価→適用
func executeSweep(ctx context.Context, cfg *config.Config, client github.GitHubClient, log logger.Logger) (*sweeper.Summary, error) {
	owner := cfg.GitHub.Owner
	repo := cfg.GitHub.Repo

	log.Info("Starting sweep",
		"owner", owner,
		"repo", repo,
		"rules", len(cfg.Rules),
		"dry_run", cfg.Sweep.DryRun || dryRunFlag)

	issues, err := client.ListOpenItems(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list open items: %w", err)
	}

	items := sweeper.ItemsFromIssues(issues)
	rules := sweeper.RulesFromConfig(cfg.Rules)
	actions := sweeper.Evaluate(items, rules, time.Now())

	log.Info("Evaluation complete",
		"items", len(items),
		"actions", len(actions))

	executor, err := sweeper.NewExecutor(client, owner, repo, log,
		sweeper.WithConcurrency(cfg.Sweep.Concurrency),
		sweeper.WithDryRun(cfg.Sweep.DryRun || dryRunFlag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create executor: %w", err)
	}

	summary := executor.Apply(ctx, actions)
	summary.Scanned = len(items)
	return summary, nil
}

// logSummary は実行サマリをログに出力する
func logSummary(log logger.Logger, summary *sweeper.Summary) {
	log.Info("Sweep complete",
		"scanned", summary.Scanned,
		"marked_stale", summary.Marked,
		"closed", summary.Closed,
		"failed", summary.Failed())

	for _, failure := range summary.Failures {
		log.Warn("Action was skipped after retries",
			"action", string(failure.Action.Type),
			"kind", string(failure.Action.Item.Kind),
			"number", failure.Action.Item.Number,
			"error", failure.Err)
	}
}
