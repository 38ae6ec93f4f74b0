package sweeper

import "time"

// Kind はスイープ対象の種別
type Kind string

const (
	// KindIssue はIssueを表す
	KindIssue Kind = "issue"
	// KindPullRequest はPull Requestを表す
	KindPullRequest Kind = "pull-request"
)

// Item はスイープ対象のスナップショット。評価中は変更されない
type Item struct {
	Number       int
	Kind         Kind
	Title        string
	Labels       []string
	CreatedAt    time.Time
	LastActivity time.Time
	Closed       bool
}

// HasLabel は指定されたラベルを持つかどうかを返す
func (i Item) HasLabel(name string) bool {
	for _, label := range i.Labels {
		if label == name {
			return true
		}
	}
	return false
}

// HasAnyLabel は指定されたラベルのいずれかを持つかどうかを返す
func (i Item) HasAnyLabel(names []string) bool {
	for _, name := range names {
		if i.HasLabel(name) {
			return true
		}
	}
	return false
}

// Rule はスイープの判定ルール
type Rule struct {
	Name            string
	Kind            Kind
	DaysBeforeStale int
	DaysBeforeClose int
	StaleLabel      string
	ExemptLabels    []string
	OnlyLabels      []string
	StaleMessage    string
	CloseMessage    string
}

// Matches はこのルールがItemに適用されるかどうかを返す。
// OnlyLabelsが指定されている場合はそのいずれかを持つItemのみが対象となり、
// ExemptLabelsのいずれかを持つItemは対象外となる
func (r Rule) Matches(item Item) bool {
	if item.Kind != r.Kind {
		return false
	}
	if len(r.OnlyLabels) > 0 && !item.HasAnyLabel(r.OnlyLabels) {
		return false
	}
	if item.HasAnyLabel(r.ExemptLabels) {
		return false
	}
	return true
}

// staleThreshold はstaleと判定されるまでの経過時間を返す
func (r Rule) staleThreshold() time.Duration {
	return time.Duration(r.DaysBeforeStale) * 24 * time.Hour
}

// closeThreshold はクローズされるまでの経過時間を返す
func (r Rule) closeThreshold() time.Duration {
	return r.staleThreshold() + time.Duration(r.DaysBeforeClose)*24*time.Hour
}

// ActionType はExecutorが実行するアクションの種別
type ActionType string

const (
	// ActionMarkStale はstaleラベルの付与とコメント投稿を表す
	ActionMarkStale ActionType = "mark-stale"
	// ActionClose はItemのクローズを表す
	ActionClose ActionType = "close"
)

// Action は評価の結果として実行すべき操作
type Action struct {
	Type ActionType
	Item Item
	Rule Rule
}
