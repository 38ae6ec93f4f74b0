package github

import (
	"context"
	"errors"

	"github.com/google/go-github/v50/github"
	"golang.org/x/oauth2"
)

// Client はGitHub APIクライアントのラッパー
type Client struct {
	github *github.Client
}

// NewClient は新しいGitHub APIクライアントを作成する
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, errors.New("GitHub token is required")
	}

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		github: github.NewClient(tc),
	}, nil
}

// ListOpenItems はオープンなIssueとPull Requestをすべて取得する。
// GitHubのIssue APIはPull Requestも返すため、両者を一度のリストで取得できる
func (c *Client) ListOpenItems(ctx context.Context, owner, repo string) ([]*github.Issue, error) {
	if owner == "" {
		return nil, errors.New("owner is required")
	}
	if repo == "" {
		return nil, errors.New("repo is required")
	}

	opts := &github.IssueListByRepoOptions{
		State: "open",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var allIssues []*github.Issue
	for {
		issues, resp, err := c.github.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, ClassifyError(err)
		}
		allIssues = append(allIssues, issues...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allIssues, nil
}

// AddLabel はIssueまたはPull Requestにラベルを追加する
func (c *Client) AddLabel(ctx context.Context, owner, repo string, number int, label string) error {
	if owner == "" {
		return errors.New("owner is required")
	}
	if repo == "" {
		return errors.New("repo is required")
	}
	if number <= 0 {
		return errors.New("item number must be positive")
	}
	if label == "" {
		return errors.New("label is required")
	}

	_, _, err := c.github.Issues.AddLabelsToIssue(ctx, owner, repo, number, []string{label})
	if err != nil {
		return ClassifyError(err)
	}
	return nil
}

// CreateComment はIssueまたはPull Requestにコメントを投稿する
func (c *Client) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	if owner == "" {
		return errors.New("owner is required")
	}
	if repo == "" {
		return errors.New("repo is required")
	}
	if number <= 0 {
		return errors.New("item number must be positive")
	}
	if body == "" {
		return errors.New("comment body is required")
	}

	comment := &github.IssueComment{Body: github.String(body)}
	_, _, err := c.github.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		return ClassifyError(err)
	}
	return nil
}

// CloseIssue はIssueまたはPull Requestをクローズする
func (c *Client) CloseIssue(ctx context.Context, owner, repo string, number int) error {
	if owner == "" {
		return errors.New("owner is required")
	}
	if repo == "" {
		return errors.New("repo is required")
	}
	if number <= 0 {
		return errors.New("item number must be positive")
	}

	req := &github.IssueRequest{State: github.String("closed")}
	_, _, err := c.github.Issues.Edit(ctx, owner, repo, number, req)
	if err != nil {
		return ClassifyError(err)
	}
	return nil
}

// GetRateLimit はGitHub APIのレート制限情報を取得する
func (c *Client) GetRateLimit(ctx context.Context) (*github.RateLimits, error) {
	rateLimit, _, err := c.github.RateLimits(ctx)
	if err != nil {
		return nil, ClassifyError(err)
	}

	return rateLimit, nil
}

// GitHubClientインターフェースを実装していることをコンパイル時に確認
var _ GitHubClient = (*Client)(nil)
