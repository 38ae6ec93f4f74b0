package sweeper

import (
	"github.com/douhashi/houki/internal/config"
	"github.com/google/go-github/v50/github"
)

// ItemFromIssue はgo-githubのIssueをItemスナップショットに変換する。
// GitHubのIssue APIはPull Requestも返すため、PRリンクの有無で種別を判定する
func ItemFromIssue(issue *github.Issue) Item {
	item := Item{
		Number: issue.GetNumber(),
		Kind:   KindIssue,
		Title:  issue.GetTitle(),
		Closed: issue.GetState() == "closed",
	}

	if issue.IsPullRequest() {
		item.Kind = KindPullRequest
	}

	item.CreatedAt = issue.GetCreatedAt().Time
	// 最終アクティビティはUpdatedAtを使用する。UpdatedAtがない場合はCreatedAtで代用
	if issue.UpdatedAt != nil {
		item.LastActivity = issue.GetUpdatedAt().Time
	} else {
		item.LastActivity = item.CreatedAt
	}

	if len(issue.Labels) > 0 {
		item.Labels = make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			if label.Name != nil {
				item.Labels = append(item.Labels, *label.Name)
			}
		}
	}

	return item
}

// ItemsFromIssues はIssueのリストをItemのリストに変換する
func ItemsFromIssues(issues []*github.Issue) []Item {
	items := make([]Item, 0, len(issues))
	for _, issue := range issues {
		if issue == nil || issue.Number == nil {
			continue
		}
		items = append(items, ItemFromIssue(issue))
	}
	return items
}

// RuleFromConfig は設定のルールを評価用のルールに変換する
func RuleFromConfig(r config.Rule) Rule {
	return Rule{
		Name:            r.Name,
		Kind:            Kind(r.Kind),
		DaysBeforeStale: r.DaysBeforeStale,
		DaysBeforeClose: r.DaysBeforeClose,
		StaleLabel:      r.StaleLabel,
		ExemptLabels:    r.ExemptLabels,
		OnlyLabels:      r.OnlyLabels,
		StaleMessage:    r.StaleMessage,
		CloseMessage:    r.CloseMessage,
	}
}

// RulesFromConfig は設定のルールリストを評価用のルールリストに変換する。
// 設定ファイルでの定義順がそのまま評価順になる
func RulesFromConfig(rules []config.Rule) []Rule {
	converted := make([]Rule, 0, len(rules))
	for _, r := range rules {
		converted = append(converted, RuleFromConfig(r))
	}
	return converted
}
