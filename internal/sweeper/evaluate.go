package sweeper

import "time"

// Evaluate はItemの集合をルールに照らして評価し、実行すべきアクションを返す。
// 純粋関数であり、副作用を持たない。同じ入力に対しては常に同じ結果を返す。
//
// ルールは定義順に評価され、最初にマッチしたルールのみが適用される
// （first-match-wins）。マッチしたルールがアクションを出さない場合でも、
// 後続のルールがそのItemを評価することはない。
func Evaluate(items []Item, rules []Rule, now time.Time) []Action {
	var actions []Action

	for _, item := range items {
		// クローズ済みのItemは対象外
		if item.Closed {
			continue
		}

		rule, ok := firstMatch(item, rules)
		if !ok {
			continue
		}

		age := now.Sub(item.LastActivity)

		if item.HasLabel(rule.StaleLabel) {
			// 既にstaleなItemはクローズ閾値のみを判定する
			if age >= rule.closeThreshold() {
				actions = append(actions, Action{
					Type: ActionClose,
					Item: item,
					Rule: rule,
				})
			}
			continue
		}

		if age >= rule.staleThreshold() {
			actions = append(actions, Action{
				Type: ActionMarkStale,
				Item: item,
				Rule: rule,
			})
		}
	}

	return actions
}

// firstMatch は定義順で最初にマッチするルールを返す
func firstMatch(item Item, rules []Rule) (Rule, bool) {
	for _, rule := range rules {
		if rule.Matches(item) {
			return rule, true
		}
	}
	return Rule{}, false
}
