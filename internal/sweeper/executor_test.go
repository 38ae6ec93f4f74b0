package sweeper

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	ghclient "github.com/douhashi/houki/internal/github"
	"github.com/douhashi/houki/internal/logger"
	gogithub "github.com/google/go-github/v50/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGitHubClient はテスト用のGitHubClient実装
type mockGitHubClient struct {
	mu    sync.Mutex
	calls []string

	listOpenItemsFunc func(ctx context.Context, owner, repo string) ([]*gogithub.Issue, error)
	addLabelFunc      func(ctx context.Context, owner, repo string, number int, label string) error
	createCommentFunc func(ctx context.Context, owner, repo string, number int, body string) error
	closeIssueFunc    func(ctx context.Context, owner, repo string, number int) error
}

func (m *mockGitHubClient) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockGitHubClient) recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockGitHubClient) ListOpenItems(ctx context.Context, owner, repo string) ([]*gogithub.Issue, error) {
	m.record("list")
	if m.listOpenItemsFunc != nil {
		return m.listOpenItemsFunc(ctx, owner, repo)
	}
	return nil, nil
}

func (m *mockGitHubClient) AddLabel(ctx context.Context, owner, repo string, number int, label string) error {
	m.record(fmt.Sprintf("add-label:%d:%s", number, label))
	if m.addLabelFunc != nil {
		return m.addLabelFunc(ctx, owner, repo, number, label)
	}
	return nil
}

func (m *mockGitHubClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	m.record(fmt.Sprintf("comment:%d", number))
	if m.createCommentFunc != nil {
		return m.createCommentFunc(ctx, owner, repo, number, body)
	}
	return nil
}

func (m *mockGitHubClient) CloseIssue(ctx context.Context, owner, repo string, number int) error {
	m.record(fmt.Sprintf("close:%d", number))
	if m.closeIssueFunc != nil {
		return m.closeIssueFunc(ctx, owner, repo, number)
	}
	return nil
}

func (m *mockGitHubClient) GetRateLimit(ctx context.Context) (*gogithub.RateLimits, error) {
	return &gogithub.RateLimits{}, nil
}

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := logger.New(logger.WithLevel("error"))
	require.NoError(t, err)
	return log
}

// singleAttempt は待ち時間なしでテストするためのリトライ戦略
func singleAttempt() ghclient.RetryStrategy {
	return ghclient.RetryStrategy{MaxAttempts: 1}
}

func TestNewExecutor(t *testing.T) {
	log := testLogger(t)

	t.Run("正常系: Executorを作成できる", func(t *testing.T) {
		e, err := NewExecutor(&mockGitHubClient{}, "owner", "repo", log)
		require.NoError(t, err)
		assert.NotNil(t, e)
	})

	t.Run("異常系: clientがnilの場合はエラー", func(t *testing.T) {
		_, err := NewExecutor(nil, "owner", "repo", log)
		assert.Error(t, err)
	})

	t.Run("異常系: ownerが空の場合はエラー", func(t *testing.T) {
		_, err := NewExecutor(&mockGitHubClient{}, "", "repo", log)
		assert.Error(t, err)
	})
}

func TestExecutor_Apply_MarkStale(t *testing.T) {
	t.Run("正常系: ラベル付与の後にコメントが投稿される", func(t *testing.T) {
		mock := &mockGitHubClient{}
		e, err := NewExecutor(mock, "owner", "repo", testLogger(t),
			WithConcurrency(1),
			WithRetryStrategy(singleAttempt()))
		require.NoError(t, err)

		action := Action{
			Type: ActionMarkStale,
			Item: Item{Number: 7, Kind: KindIssue},
			Rule: Rule{Name: "r", StaleLabel: "stale", StaleMessage: "going stale"},
		}

		summary := e.Apply(context.Background(), []Action{action})

		assert.Equal(t, 1, summary.Marked)
		assert.Equal(t, 0, summary.Failed())
		assert.Equal(t, []string{"add-label:7:stale", "comment:7"}, mock.recorded())
	})

	t.Run("正常系: staleメッセージが空の場合はコメントを投稿しない", func(t *testing.T) {
		mock := &mockGitHubClient{}
		e, err := NewExecutor(mock, "owner", "repo", testLogger(t),
			WithConcurrency(1),
			WithRetryStrategy(singleAttempt()))
		require.NoError(t, err)

		action := Action{
			Type: ActionMarkStale,
			Item: Item{Number: 7, Kind: KindIssue},
			Rule: Rule{Name: "r", StaleLabel: "stale"},
		}

		summary := e.Apply(context.Background(), []Action{action})

		assert.Equal(t, 1, summary.Marked)
		assert.Equal(t, []string{"add-label:7:stale"}, mock.recorded())
	})
}

func TestExecutor_Apply_Close(t *testing.T) {
	t.Run("正常系: クローズメッセージの投稿後にクローズされる", func(t *testing.T) {
		mock := &mockGitHubClient{}
		e, err := NewExecutor(mock, "owner", "repo", testLogger(t),
			WithConcurrency(1),
			WithRetryStrategy(singleAttempt()))
		require.NoError(t, err)

		action := Action{
			Type: ActionClose,
			Item: Item{Number: 3, Kind: KindIssue},
			Rule: Rule{Name: "r", StaleLabel: "stale", CloseMessage: "closing"},
		}

		summary := e.Apply(context.Background(), []Action{action})

		assert.Equal(t, 1, summary.Closed)
		assert.Equal(t, []string{"comment:3", "close:3"}, mock.recorded())
	})

	t.Run("正常系: クローズメッセージがない場合はコメントなしでクローズされる", func(t *testing.T) {
		mock := &mockGitHubClient{}
		e, err := NewExecutor(mock, "owner", "repo", testLogger(t),
			WithConcurrency(1),
			WithRetryStrategy(singleAttempt()))
		require.NoError(t, err)

		action := Action{
			Type: ActionClose,
			Item: Item{Number: 3, Kind: KindIssue},
			Rule: Rule{Name: "r", StaleLabel: "stale"},
		}

		summary := e.Apply(context.Background(), []Action{action})

		assert.Equal(t, 1, summary.Closed)
		assert.Equal(t, []string{"close:3"}, mock.recorded())
	})
}

func TestExecutor_Apply_FailureIsolation(t *testing.T) {
	t.Run("正常系: 1つのアクションの失敗が他のアクションを妨げない", func(t *testing.T) {
		mock := &mockGitHubClient{
			addLabelFunc: func(ctx context.Context, owner, repo string, number int, label string) error {
				if number == 1 {
					return &ghclient.GitHubError{
						Type:    ghclient.ErrorTypeUnknown,
						Message: "boom",
					}
				}
				return nil
			},
		}
		e, err := NewExecutor(mock, "owner", "repo", testLogger(t),
			WithConcurrency(1),
			WithRetryStrategy(singleAttempt()))
		require.NoError(t, err)

		actions := []Action{
			{Type: ActionMarkStale, Item: Item{Number: 1, Kind: KindIssue}, Rule: Rule{StaleLabel: "stale"}},
			{Type: ActionMarkStale, Item: Item{Number: 2, Kind: KindIssue}, Rule: Rule{StaleLabel: "stale"}},
		}

		summary := e.Apply(context.Background(), actions)

		assert.Equal(t, 1, summary.Marked)
		require.Equal(t, 1, summary.Failed())
		assert.Equal(t, 1, summary.Failures[0].Action.Item.Number)
		assert.Contains(t, mock.recorded(), "add-label:2:stale")
	})

	t.Run("正常系: NotFoundは成功として扱われる", func(t *testing.T) {
		mock := &mockGitHubClient{
			closeIssueFunc: func(ctx context.Context, owner, repo string, number int) error {
				return &ghclient.GitHubError{
					Type:       ghclient.ErrorTypeNotFound,
					StatusCode: 404,
					Message:    "gone",
				}
			},
		}
		e, err := NewExecutor(mock, "owner", "repo", testLogger(t),
			WithConcurrency(1),
			WithRetryStrategy(singleAttempt()))
		require.NoError(t, err)

		action := Action{
			Type: ActionClose,
			Item: Item{Number: 5, Kind: KindIssue},
			Rule: Rule{StaleLabel: "stale"},
		}

		summary := e.Apply(context.Background(), []Action{action})

		assert.Equal(t, 1, summary.Closed)
		assert.Equal(t, 0, summary.Failed())
	})
}

func TestExecutor_Apply_Retry(t *testing.T) {
	t.Run("正常系: レート制限エラーはretry-afterを待って再試行される", func(t *testing.T) {
		attempts := 0
		mock := &mockGitHubClient{
			addLabelFunc: func(ctx context.Context, owner, repo string, number int, label string) error {
				attempts++
				if attempts == 1 {
					return &ghclient.GitHubError{
						Type:       ghclient.ErrorTypeRateLimit,
						StatusCode: 403,
						Message:    "rate limited",
						RetryAfter: time.Millisecond,
					}
				}
				return nil
			},
		}
		// リトライ戦略を固定しない場合はエラー種別から選択される
		e, err := NewExecutor(mock, "owner", "repo", testLogger(t), WithConcurrency(1))
		require.NoError(t, err)

		action := Action{
			Type: ActionMarkStale,
			Item: Item{Number: 9, Kind: KindIssue},
			Rule: Rule{Name: "r", StaleLabel: "stale"},
		}

		summary := e.Apply(context.Background(), []Action{action})

		assert.Equal(t, 1, summary.Marked)
		assert.Equal(t, 0, summary.Failed())
		assert.Equal(t, 2, attempts)
	})

	t.Run("正常系: 認証エラーは再試行されない", func(t *testing.T) {
		attempts := 0
		mock := &mockGitHubClient{
			addLabelFunc: func(ctx context.Context, owner, repo string, number int, label string) error {
				attempts++
				return &ghclient.GitHubError{
					Type:       ghclient.ErrorTypeAuthentication,
					StatusCode: 401,
					Message:    "bad credentials",
				}
			},
		}
		e, err := NewExecutor(mock, "owner", "repo", testLogger(t), WithConcurrency(1))
		require.NoError(t, err)

		action := Action{
			Type: ActionMarkStale,
			Item: Item{Number: 9, Kind: KindIssue},
			Rule: Rule{Name: "r", StaleLabel: "stale"},
		}

		summary := e.Apply(context.Background(), []Action{action})

		assert.Equal(t, 1, summary.Failed())
		assert.Equal(t, 1, attempts)
	})
}

func TestExecutor_Apply_DryRun(t *testing.T) {
	t.Run("正常系: ドライランではAPI呼び出しが発生しない", func(t *testing.T) {
		mock := &mockGitHubClient{}
		e, err := NewExecutor(mock, "owner", "repo", testLogger(t),
			WithDryRun(true),
			WithRetryStrategy(singleAttempt()))
		require.NoError(t, err)

		actions := []Action{
			{Type: ActionMarkStale, Item: Item{Number: 1, Kind: KindIssue}, Rule: Rule{StaleLabel: "stale"}},
			{Type: ActionClose, Item: Item{Number: 2, Kind: KindIssue}, Rule: Rule{StaleLabel: "stale"}},
		}

		summary := e.Apply(context.Background(), actions)

		assert.Empty(t, mock.recorded())
		assert.Equal(t, 1, summary.Marked)
		assert.Equal(t, 1, summary.Closed)
	})
}

func TestExecutor_Apply_Concurrent(t *testing.T) {
	t.Run("正常系: 並列実行でもすべてのアクションが適用される", func(t *testing.T) {
		mock := &mockGitHubClient{}
		e, err := NewExecutor(mock, "owner", "repo", testLogger(t),
			WithConcurrency(4),
			WithRetryStrategy(singleAttempt()))
		require.NoError(t, err)

		var actions []Action
		for i := 1; i <= 20; i++ {
			actions = append(actions, Action{
				Type: ActionMarkStale,
				Item: Item{Number: i, Kind: KindIssue},
				Rule: Rule{StaleLabel: "stale"},
			})
		}

		summary := e.Apply(context.Background(), actions)

		assert.Equal(t, 20, summary.Marked)
		assert.Equal(t, 0, summary.Failed())
		assert.Len(t, mock.recorded(), 20)
	})
}
