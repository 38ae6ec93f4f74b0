package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/douhashi/houki/internal/github"
	"github.com/douhashi/houki/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Executor は評価結果のアクションをGitHubに適用する
type Executor struct {
	client      github.GitHubClient
	owner       string
	repo        string
	concurrency int
	dryRun      bool
	// retryがnilの場合はエラー種別ごとに戦略を選択する
	retry  *github.RetryStrategy
	logger logger.Logger
}

// ExecutorOption はExecutorの設定オプション
type ExecutorOption func(*Executor)

// WithConcurrency はワーカー数を設定するオプション
func WithConcurrency(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithDryRun はドライランモードを設定するオプション
func WithDryRun(dryRun bool) ExecutorOption {
	return func(e *Executor) {
		e.dryRun = dryRun
	}
}

// WithRetryStrategy はエラー種別による選択を無効にし、固定のリトライ戦略を使用するオプション
func WithRetryStrategy(strategy github.RetryStrategy) ExecutorOption {
	return func(e *Executor) {
		e.retry = &strategy
	}
}

// NewExecutor は新しいExecutorを作成する
func NewExecutor(client github.GitHubClient, owner, repo string, log logger.Logger, opts ...ExecutorOption) (*Executor, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if owner == "" {
		return nil, fmt.Errorf("owner is required")
	}
	if repo == "" {
		return nil, fmt.Errorf("repo is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	e := &Executor{
		client:      client,
		owner:       owner,
		repo:        repo,
		concurrency: 4,
		logger:      log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Failure は適用に失敗したアクションの記録
type Failure struct {
	Action Action
	Err    error
}

// Summary は1回のスイープ実行の結果
type Summary struct {
	mu       sync.Mutex
	Scanned  int
	Marked   int
	Closed   int
	Failures []Failure
}

func (s *Summary) recordMarked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Marked++
}

func (s *Summary) recordClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed++
}

func (s *Summary) recordFailure(action Action, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failures = append(s.Failures, Failure{Action: action, Err: err})
}

// Failed は失敗したアクションの数を返す
func (s *Summary) Failed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Failures)
}

// Apply はアクションをワーカープールで適用し、実行結果のサマリを返す。
// アクションはItemごとに独立しているため並列に適用できる。1つのアクション内の
// 手順（ラベル付与とコメント投稿など）は同一ワーカー上で順に実行される。
// 個々のアクションの失敗はサマリに記録されるだけで、他のアクションを妨げない
func (e *Executor) Apply(ctx context.Context, actions []Action) *Summary {
	summary := &Summary{}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, action := range actions {
		action := action
		g.Go(func() error {
			if err := e.applyAction(ctx, action); err != nil {
				e.logger.Warn("Failed to apply action",
					"action", string(action.Type),
					"kind", string(action.Item.Kind),
					"number", action.Item.Number,
					"rule", action.Rule.Name,
					"error", err)
				summary.recordFailure(action, err)
				return nil
			}

			switch action.Type {
			case ActionMarkStale:
				summary.recordMarked()
			case ActionClose:
				summary.recordClosed()
			}
			return nil
		})
	}

	// ワーカーはエラーを返さないためWaitのエラーは発生しない
	_ = g.Wait()

	return summary
}

// applyAction は単一のアクションを適用する
func (e *Executor) applyAction(ctx context.Context, action Action) error {
	if e.dryRun {
		e.logger.Info("Dry run: skipping action",
			"action", string(action.Type),
			"kind", string(action.Item.Kind),
			"number", action.Item.Number,
			"rule", action.Rule.Name)
		return nil
	}

	switch action.Type {
	case ActionMarkStale:
		return e.markStale(ctx, action)
	case ActionClose:
		return e.closeItem(ctx, action)
	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
}

// markStale はstaleラベルを付与し、staleメッセージをコメントとして投稿する
func (e *Executor) markStale(ctx context.Context, action Action) error {
	if err := e.call(ctx, func() error {
		return e.client.AddLabel(ctx, e.owner, e.repo, action.Item.Number, action.Rule.StaleLabel)
	}); err != nil {
		return fmt.Errorf("failed to add stale label: %w", err)
	}

	if action.Rule.StaleMessage == "" {
		return nil
	}

	if err := e.call(ctx, func() error {
		return e.client.CreateComment(ctx, e.owner, e.repo, action.Item.Number, action.Rule.StaleMessage)
	}); err != nil {
		return fmt.Errorf("failed to post stale comment: %w", err)
	}

	return nil
}

// closeItem はクローズメッセージを投稿し、Itemをクローズする
func (e *Executor) closeItem(ctx context.Context, action Action) error {
	if action.Rule.CloseMessage != "" {
		if err := e.call(ctx, func() error {
			return e.client.CreateComment(ctx, e.owner, e.repo, action.Item.Number, action.Rule.CloseMessage)
		}); err != nil {
			return fmt.Errorf("failed to post close comment: %w", err)
		}
	}

	if err := e.call(ctx, func() error {
		return e.client.CloseIssue(ctx, e.owner, e.repo, action.Item.Number)
	}); err != nil {
		return fmt.Errorf("failed to close item: %w", err)
	}

	return nil
}

// call はリトライ付きでAPI呼び出しを実行する。最初の失敗のエラー種別から
// リトライ戦略を選択する（レート制限はretry-afterを待つ、ネットワークエラーは
// 短い間隔で再試行する）。Itemが既に消えている場合（NotFound）は成功として扱う
func (e *Executor) call(ctx context.Context, operation func() error) error {
	err := operation()
	if err == nil {
		return nil
	}
	if github.IsNotFoundError(err) {
		return nil
	}

	strategy := github.GetStrategyForError(err)
	if e.retry != nil {
		strategy = *e.retry
	}
	if !strategy.ShouldRetry(err, 1) {
		return err
	}

	if github.IsRateLimitError(err) {
		e.logger.Warn("Rate limit hit, backing off before retry", "error", err)
	}

	// 初回失敗後の待機。エラーがretry-afterを持つ場合はそれに従う
	delay := strategy.GetRetryDelay(1)
	var ghErr *github.GitHubError
	if errors.As(err, &ghErr) && ghErr.RetryAfter > 0 {
		delay = ghErr.RetryAfter
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	err = github.RetryWithStrategy(ctx, strategy, operation)
	if err != nil && github.IsNotFoundError(err) {
		return nil
	}
	return err
}
