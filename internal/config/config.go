package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config はアプリケーション全体の設定
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Sweep  SweepConfig  `mapstructure:"sweep"`
	Rules  []Rule       `mapstructure:"rules"`
}

// GitHubConfig はGitHub関連の設定
type GitHubConfig struct {
	Token string `mapstructure:"token"`
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
}

// SweepConfig はスイープ実行の設定
type SweepConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	Concurrency int           `mapstructure:"concurrency"`
	DryRun      bool          `mapstructure:"dry_run"`
}

// Rule はスイープ対象の判定ルール。リストの順序が評価順になる
type Rule struct {
	Name            string   `mapstructure:"name"`
	Kind            string   `mapstructure:"kind"`
	DaysBeforeStale int      `mapstructure:"days_before_stale"`
	DaysBeforeClose int      `mapstructure:"days_before_close"`
	StaleLabel      string   `mapstructure:"stale_label"`
	ExemptLabels    []string `mapstructure:"exempt_labels"`
	OnlyLabels      []string `mapstructure:"only_labels"`
	StaleMessage    string   `mapstructure:"stale_message"`
	CloseMessage    string   `mapstructure:"close_message"`
}

// KindIssue / KindPullRequest はルールの適用対象種別
const (
	KindIssue       = "issue"
	KindPullRequest = "pull-request"
)

const (
	defaultStaleMessage = "This issue has been automatically marked as stale because it has not had recent activity. It will be closed if no further activity occurs."
	defaultCloseMessage = "This issue has been automatically closed due to inactivity. Feel free to reopen it if it is still relevant."
	defaultPRStale      = "This pull request has been automatically marked as stale because it has not had recent activity. It will be closed if no further activity occurs."
)

// NewConfig は新しいConfigを作成する
func NewConfig() *Config {
	return &Config{
		Sweep: SweepConfig{
			Interval:    4 * time.Hour,
			Concurrency: 4,
		},
		Rules: DefaultRules(),
	}
}

// DefaultRules はデフォルトのルールセットを返す
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:            "stale-issues",
			Kind:            KindIssue,
			DaysBeforeStale: 90,
			DaysBeforeClose: 30,
			StaleLabel:      "stale",
			ExemptLabels:    []string{"pinned", "security"},
			StaleMessage:    defaultStaleMessage,
			CloseMessage:    defaultCloseMessage,
		},
		{
			Name:            "stale-pull-requests",
			Kind:            KindPullRequest,
			DaysBeforeStale: 30,
			DaysBeforeClose: 14,
			StaleLabel:      "stale",
			ExemptLabels:    []string{"pinned", "security"},
			StaleMessage:    defaultPRStale,
		},
	}
}

// Load は設定ファイルから設定を読み込む
func (c *Config) Load(configPath string) error {
	v := viper.New()

	v.SetConfigFile(configPath)

	v.SetEnvPrefix("HOUKI")
	v.AutomaticEnv()

	// GITHUB_TOKENもサポート
	v.BindEnv("github.token", "GITHUB_TOKEN", "HOUKI_GITHUB_TOKEN")

	v.SetDefault("sweep.interval", 4*time.Hour)
	v.SetDefault("sweep.concurrency", 4)
	v.SetDefault("sweep.dry_run", false)

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	// Unmarshalは既存スライスを要素単位で上書きするため、
	// デフォルトのルールが混ざらないよう先にクリアする
	c.Rules = nil

	if err := v.Unmarshal(c); err != nil {
		return err
	}

	// ルールが未定義の場合はデフォルトのルールセットを使用
	if len(c.Rules) == 0 {
		c.Rules = DefaultRules()
	}

	return nil
}

// LoadOrDefault は設定ファイルを読み込み、失敗した場合はデフォルト値を使用する
func (c *Config) LoadOrDefault(configPath string) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return
	}

	_ = c.Load(configPath)
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return errors.New("GitHub token is required")
	}
	if c.GitHub.Owner == "" {
		return errors.New("GitHub owner is required")
	}
	if c.GitHub.Repo == "" {
		return errors.New("GitHub repo is required")
	}

	if c.Sweep.Interval < time.Minute {
		return errors.New("sweep interval must be at least 1 minute")
	}
	if c.Sweep.Concurrency < 1 {
		return errors.New("sweep concurrency must be at least 1")
	}

	if len(c.Rules) == 0 {
		return errors.New("at least one rule is required")
	}

	for i, rule := range c.Rules {
		if err := validateRule(rule); err != nil {
			name := rule.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i+1)
			}
			return fmt.Errorf("invalid rule %s: %w", name, err)
		}
	}

	return nil
}

// validateRule は単一ルールの妥当性を検証する
func validateRule(rule Rule) error {
	if rule.Kind != KindIssue && rule.Kind != KindPullRequest {
		return fmt.Errorf("kind must be %q or %q, got %q", KindIssue, KindPullRequest, rule.Kind)
	}
	if rule.StaleLabel == "" {
		return errors.New("stale label is required")
	}
	if rule.DaysBeforeStale < 0 {
		return errors.New("days_before_stale must be >= 0")
	}
	if rule.DaysBeforeClose < 0 {
		return errors.New("days_before_close must be >= 0")
	}
	for _, label := range rule.ExemptLabels {
		if label == rule.StaleLabel {
			return fmt.Errorf("stale label %q must not be listed in exempt_labels", rule.StaleLabel)
		}
	}
	return nil
}
