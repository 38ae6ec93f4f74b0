package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "設定内容とAPIレート制限を表示",
		Long: `解決された対象リポジトリ、ルール一覧、および現在の
GitHub APIレート制限を表示します。`,
		RunE: runStatus,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFunc()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Repository: %s/%s\n", cfg.GitHub.Owner, cfg.GitHub.Repo)
	fmt.Fprintf(out, "Interval:   %s\n", cfg.Sweep.Interval)
	fmt.Fprintf(out, "Dry run:    %v\n\n", cfg.Sweep.DryRun)

	fmt.Fprintln(out, "Rules (evaluated in order):")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tKIND\tSTALE\tCLOSE\tLABEL\tEXEMPT\tONLY")
	for _, rule := range cfg.Rules {
		fmt.Fprintf(w, "  %s\t%s\t%dd\t+%dd\t%s\t%s\t%s\n",
			rule.Name,
			rule.Kind,
			rule.DaysBeforeStale,
			rule.DaysBeforeClose,
			rule.StaleLabel,
			joinOrDash(rule.ExemptLabels),
			joinOrDash(rule.OnlyLabels))
	}
	w.Flush()

	client, err := newGitHubClientFunc(cfg.GitHub.Token)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	limits, err := client.GetRateLimit(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get rate limit: %w", err)
	}

	if core := limits.GetCore(); core != nil {
		fmt.Fprintf(out, "\nAPI rate limit: %d/%d (resets %s)\n",
			core.Remaining,
			core.Limit,
			core.Reset.Format(time.RFC3339))
	}

	return nil
}

func joinOrDash(labels []string) string {
	if len(labels) == 0 {
		return "-"
	}
	return strings.Join(labels, ",")
}
