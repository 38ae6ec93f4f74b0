package cmd

import (
	"fmt"
	"os"

	"github.com/douhashi/houki/internal/logger"
	"github.com/douhashi/houki/internal/version"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	repoFlag string
	verbose  bool
	rootCmd  *cobra.Command
	appLog   logger.Logger
)

func init() {
	rootCmd = newRootCmd()

	// サブコマンドの追加
	addCommands(rootCmd)
}

func addCommands(cmd *cobra.Command) {
	cmd.AddCommand(newSweepCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newStatusCmd())
}

// NewRootCmd creates a new root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := newRootCmd()
	addCommands(cmd)
	return cmd
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "houki",
		Short: "GitHubリポジトリのstale Issue / PRスイーパー",
		Long: `houkiは、GitHubリポジトリのオープンなIssueとPull Requestを走査し、
一定期間アクティビティのないものにstaleラベルとコメントを付与し、
さらに放置されたものをクローズするCLIツールです。`,
		Version: version.Get().String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// 設定の読み込みは各サブコマンドがloadSweepConfigで行う。
			// ここではロガーの初期化のみ
			if verbose {
				os.Setenv("DEBUG", "true")
			}
			var err error
			appLog, err = logger.NewFromEnv()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "設定ファイルのパス")
	cmd.PersistentFlags().StringVarP(&repoFlag, "repo", "r", "", "対象リポジトリ (owner/repo形式、設定より優先)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "詳細出力")

	return cmd
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
