package logger

import (
	"os"
	"strings"
)

// ConfigFromEnv は環境変数からロガー設定を組み立てる。
// HOUKI_プレフィックス付きの変数が無印の変数より優先される
func ConfigFromEnv() *Config {
	config := &Config{
		Level:  "info",
		Format: "text",
	}

	if isTrue(os.Getenv("DEBUG")) {
		config.Level = "debug"
	}

	// ログレベルの明示指定はDEBUGより優先
	if level := envValue("LOG_LEVEL"); level != "" {
		config.Level = strings.ToLower(level)
	}

	if format := envValue("LOG_FORMAT"); format != "" {
		config.Format = strings.ToLower(format)
	}

	return config
}

// NewFromEnv は環境変数から設定を読み込んでロガーを作成する
func NewFromEnv() (Logger, error) {
	config := ConfigFromEnv()
	return New(
		WithLevel(config.Level),
		WithFormat(config.Format),
	)
}

// envValue はHOUKI_プレフィックス付きの環境変数を優先して値を返す
func envValue(name string) string {
	if v := os.Getenv("HOUKI_" + name); v != "" {
		return v
	}
	return os.Getenv(name)
}

// isTrue は文字列がtrueを表すかチェックする
func isTrue(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
