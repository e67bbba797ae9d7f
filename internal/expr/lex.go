package expr

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	expressionToken = iota
	textToken
)

var expressionMatcher = parsly.NewToken(expressionToken, "<+ ... >", matcher.NewSeqBlock(Open, Close))
var textMatcher = parsly.NewToken(textToken, "Text", &textRun{})

// textRun consumes plain text up to the next expression opener. It always
// consumes at least one byte so that an unterminated opener is skipped.
type textRun struct{}

func (t *textRun) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if i > cursor.Pos && cursor.Input[i] == Open[0] && i+1 < cursor.InputSize && cursor.Input[i+1] == Open[1] {
			return matched
		}
		matched++
	}
	return matched
}
