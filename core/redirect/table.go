package redirect

import "github.com/gaurav-prasanna/assetpipe/core"

// Table is an ordered routing table, matched top to bottom.
type Table struct {
	rules []core.RedirectRule
}

// NewTable creates a table seeded with existing rules.
func NewTable(existing ...core.RedirectRule) *Table {
	t := &Table{}
	t.rules = append(t.rules, existing...)
	return t
}

// Prepend inserts a disguise/redirect pair at the top of the table. Each
// rule goes to the front in turn, so the redirect rule ends up above its
// disguise rule.
func (t *Table) Prepend(pair [2]core.RedirectRule) {
	for _, r := range pair {
		t.rules = append([]core.RedirectRule{r}, t.rules...)
	}
}

// Rules returns a copy of the table in match order.
func (t *Table) Rules() []core.RedirectRule {
	out := make([]core.RedirectRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of rules in the table.
func (t *Table) Len() int {
	return len(t.rules)
}
