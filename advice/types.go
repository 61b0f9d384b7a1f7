package advice

import "time"

// Rule pairs a CEL trigger expression over the raw questionnaire answers
// with the recommendation it produces. Expressions see a single `answers`
// map variable, e.g.
//
//	"smoking_history" in answers && answers.smoking_history == "yes"
//
// General-wellness rules use the expression `true` so they fire on every
// submission. Lower Priority values are shown first.
type Rule struct {
	ID         string
	Name       string
	Expression string
	Icon       string
	Title      string
	Text       string
	Priority   int
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
