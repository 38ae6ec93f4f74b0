package logger

import (
	"regexp"
	"strings"
)

// センシティブなキーのパターン（大文字小文字を区別しない）
var sensitiveKeyPatterns = []string{
	"password",
	"token",
	"api_key",
	"apikey",
	"secret",
	"github_token",
	"authorization",
	"auth",
	"credential",
	"access_token",
}

// センシティブな値のパターン（正規表現）
var sensitiveValuePatterns = []*regexp.Regexp{
	// GitHub personal access tokens (ghp_ + 36文字)
	regexp.MustCompile(`^ghp_[A-Za-z0-9]{36,}$`),
	// GitHub app tokens (ghs_ + 36文字)
	regexp.MustCompile(`^ghs_[A-Za-z0-9]{36,}$`),
	// GitHub user access tokens (ghu_ + 36文字)
	regexp.MustCompile(`^ghu_[A-Za-z0-9]{36,}$`),
	// GitHub fine-grained tokens (github_pat_ + 22文字以上)
	regexp.MustCompile(`^github_pat_[A-Za-z0-9_]{22,}$`),
	// Authorization Bearer tokens (大文字小文字を区別しない)
	regexp.MustCompile(`(?i)^Bearer\s+[A-Za-z0-9\-_\.]{20,}$`),
	// Token headers (大文字小文字を区別しない)
	regexp.MustCompile(`(?i)^token\s+[A-Za-z0-9\-_\.]{20,}$`),
}

// SanitizeValue は値がセンシティブかどうかを判定し、必要に応じてマスクする
func SanitizeValue(value interface{}) interface{} {
	if isSensitiveValue(value) {
		return maskValue(value)
	}
	return value
}

// SanitizeKeyValue はキーと値の組み合わせをチェックし、センシティブな情報をマスクする
func SanitizeKeyValue(key string, value interface{}) (string, interface{}) {
	if isSensitiveKey(key) {
		return key, "***MASKED***"
	}

	if isSensitiveValue(value) {
		return key, maskValue(value)
	}

	return key, value
}

// SanitizeArgs はログ引数（key-valueペア）をサニタイズする
func SanitizeArgs(args ...interface{}) []interface{} {
	if len(args) == 0 {
		return args
	}

	sanitized := make([]interface{}, len(args))
	copy(sanitized, args)

	// key-valueペアを処理（偶数インデックスがkey、奇数インデックスがvalue）
	for i := 0; i+1 < len(sanitized); i += 2 {
		key, ok := sanitized[i].(string)
		if !ok {
			continue
		}
		_, v := SanitizeKeyValue(key, sanitized[i+1])
		sanitized[i+1] = v
	}

	return sanitized
}

// isSensitiveKey はキーがセンシティブかどうかを判定する
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// isSensitiveValue は値がセンシティブかどうかを判定する
func isSensitiveValue(value interface{}) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	for _, pattern := range sensitiveValuePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// maskValue は値をマスクする
func maskValue(value interface{}) interface{} {
	s, ok := value.(string)
	if !ok {
		return "***MASKED***"
	}
	// プレフィックスだけ残して残りをマスクする
	if len(s) > 8 {
		return s[:4] + "***MASKED***"
	}
	return "***MASKED***"
}
