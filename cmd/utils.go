package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/douhashi/houki/internal/config"
	"github.com/douhashi/houki/internal/github"
)

// テスト時にモック可能な関数変数
var (
	loadConfigFunc      = loadSweepConfig
	newGitHubClientFunc = newGitHubClient
)

func newGitHubClient(token string) (github.GitHubClient, error) {
	return github.NewClient(token)
}

// loadSweepConfig は設定ファイルと環境変数から設定を組み立てる
func loadSweepConfig() (*config.Config, error) {
	cfg := config.NewConfig()

	path := cfgFile
	if path == "" {
		path = findDefaultConfig()
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.Load(path); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		} else if cfgFile != "" {
			// 明示的に指定されたファイルが存在しない場合はエラー
			return nil, fmt.Errorf("config file not found: %s", cfgFile)
		}
	}

	// 設定ファイルなしでも環境変数だけで動作できるようにする
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = firstNonEmpty(os.Getenv("HOUKI_GITHUB_TOKEN"), os.Getenv("GITHUB_TOKEN"))
	}
	if cfg.GitHub.Owner == "" {
		cfg.GitHub.Owner = os.Getenv("HOUKI_GITHUB_OWNER")
	}
	if cfg.GitHub.Repo == "" {
		cfg.GitHub.Repo = os.Getenv("HOUKI_GITHUB_REPO")
	}

	// --repo フラグは設定ファイルより優先
	if repoFlag != "" {
		owner, repo, err := parseRepoSlug(repoFlag)
		if err != nil {
			return nil, err
		}
		cfg.GitHub.Owner = owner
		cfg.GitHub.Repo = repo
	}

	return cfg, nil
}

// findDefaultConfig はデフォルトの設定ファイル探索パスから存在するものを返す
func findDefaultConfig() string {
	candidates := []string{"houki.yml", "houki.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			home+"/.config/houki/houki.yml",
			home+"/.config/houki/houki.yaml",
		)
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// parseRepoSlug は owner/repo 形式の文字列を分解する
func parseRepoSlug(slug string) (owner, repo string, err error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format %q: expected owner/repo", slug)
	}
	return parts[0], parts[1], nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
