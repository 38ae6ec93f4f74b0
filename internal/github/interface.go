package github

import (
	"context"

	"github.com/google/go-github/v50/github"
)

// GitHubClient はGitHub APIクライアントのインターフェース
type GitHubClient interface {
	ListOpenItems(ctx context.Context, owner, repo string) ([]*github.Issue, error)
	AddLabel(ctx context.Context, owner, repo string, number int, label string) error
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
	CloseIssue(ctx context.Context, owner, repo string, number int) error
	GetRateLimit(ctx context.Context) (*github.RateLimits, error)
}
