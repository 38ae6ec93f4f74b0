package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	outputFlag string
	forceFlag  bool
)

const configTemplate = `# houki 設定ファイル
github:
  # トークンは環境変数 GITHUB_TOKEN / HOUKI_GITHUB_TOKEN でも指定できます
  # token: ghp_xxxx
  owner: your-org
  repo: your-repo

sweep:
  # watchモードでの実行間隔
  interval: 4h
  # アクション適用の並列数
  concurrency: 4
  # trueの場合、アクションを適用せずログ出力のみ行う
  dry_run: false

# ルールは上から順に評価され、最初にマッチしたルールのみが適用されます
rules:
  - name: stale-issues
    kind: issue
    days_before_stale: 90
    days_before_close: 30
    stale_label: stale
    exempt_labels:
      - pinned
      - security
    # only_labels:
    #   - needs-triage
    stale_message: |
      This issue has been automatically marked as stale because it has not had
      recent activity. It will be closed if no further activity occurs.
    close_message: |
      This issue has been automatically closed due to inactivity.
      Feel free to reopen it if it is still relevant.

  - name: stale-pull-requests
    kind: pull-request
    days_before_stale: 30
    days_before_close: 14
    stale_label: stale
    exempt_labels:
      - pinned
      - security
    stale_message: |
      This pull request has been automatically marked as stale because it has
      not had recent activity. It will be closed if no further activity occurs.
`

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "設定ファイルの雛形を生成",
		Long: `デフォルトのルールセットを含む設定ファイルの雛形を生成します。

使用例:
  houki init                      # カレントディレクトリにhouki.ymlを生成
  houki init -o /path/to/houki.yml
  houki init --force              # 既存ファイルを上書き`,
		RunE: runInit,
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "houki.yml", "生成する設定ファイルのパス")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "既存の設定ファイルを上書きする")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(outputFlag); err == nil && !forceFlag {
		return fmt.Errorf("config file already exists: %s (use --force to overwrite)", outputFlag)
	}

	if err := os.WriteFile(outputFlag, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "設定ファイルを生成しました: %s\n", outputFlag)
	return nil
}
