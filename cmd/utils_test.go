package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoSlug(t *testing.T) {
	tests := []struct {
		name      string
		slug      string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{
			name:      "正常系: owner/repo形式を分解できる",
			slug:      "douhashi/houki",
			wantOwner: "douhashi",
			wantRepo:  "houki",
			wantErr:   false,
		},
		{
			name:    "異常系: スラッシュがない場合はエラー",
			slug:    "douhashi",
			wantErr: true,
		},
		{
			name:    "異常系: ownerが空の場合はエラー",
			slug:    "/houki",
			wantErr: true,
		},
		{
			name:    "異常系: repoが空の場合はエラー",
			slug:    "douhashi/",
			wantErr: true,
		},
		{
			name:    "異常系: 要素が多すぎる場合はエラー",
			slug:    "a/b/c",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := parseRepoSlug(tt.slug)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestLoadSweepConfig(t *testing.T) {
	t.Run("正常系: 環境変数からトークンとリポジトリを読み込める", func(t *testing.T) {
		originalCfgFile := cfgFile
		originalRepoFlag := repoFlag
		t.Cleanup(func() {
			cfgFile = originalCfgFile
			repoFlag = originalRepoFlag
		})
		cfgFile = ""
		repoFlag = ""

		t.Setenv("GITHUB_TOKEN", "env-token")
		t.Setenv("HOUKI_GITHUB_OWNER", "douhashi")
		t.Setenv("HOUKI_GITHUB_REPO", "houki")

		cfg, err := loadSweepConfig()
		require.NoError(t, err)
		assert.Equal(t, "env-token", cfg.GitHub.Token)
		assert.Equal(t, "douhashi", cfg.GitHub.Owner)
		assert.Equal(t, "houki", cfg.GitHub.Repo)
	})

	t.Run("正常系: --repoフラグが設定より優先される", func(t *testing.T) {
		originalCfgFile := cfgFile
		originalRepoFlag := repoFlag
		t.Cleanup(func() {
			cfgFile = originalCfgFile
			repoFlag = originalRepoFlag
		})
		cfgFile = ""
		repoFlag = "other/project"

		t.Setenv("GITHUB_TOKEN", "env-token")
		t.Setenv("HOUKI_GITHUB_OWNER", "douhashi")
		t.Setenv("HOUKI_GITHUB_REPO", "houki")

		cfg, err := loadSweepConfig()
		require.NoError(t, err)
		assert.Equal(t, "other", cfg.GitHub.Owner)
		assert.Equal(t, "project", cfg.GitHub.Repo)
	})

	t.Run("異常系: 明示的に指定された設定ファイルが存在しない場合はエラー", func(t *testing.T) {
		originalCfgFile := cfgFile
		t.Cleanup(func() {
			cfgFile = originalCfgFile
		})
		cfgFile = "/nonexistent/houki.yml"

		_, err := loadSweepConfig()
		assert.Error(t, err)
	})
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
