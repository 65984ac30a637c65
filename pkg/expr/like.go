package expr

import (
	"relcore/pkg/chunk"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// LikeExpr implements SQL LIKE over Chars values: '%' matches any run of
// characters (including none), '_' matches exactly one character, and a
// backslash escapes the character that follows it, including a literal
// '%', '_' or backslash.
type LikeExpr struct {
	header  Header
	child   Expr
	pattern Expr
	negated bool
}

// NewLikeExpr builds a LIKE (negated=false) or NOT LIKE node.
func NewLikeExpr(child, pattern Expr, negated bool) *LikeExpr {
	name := child.Header().DisplayName() + " LIKE " + pattern.Header().DisplayName()
	if negated {
		name = child.Header().DisplayName() + " NOT LIKE " + pattern.Header().DisplayName()
	}
	return &LikeExpr{header: NewHeader(name), child: child, pattern: pattern, negated: negated}
}

func (e *LikeExpr) Kind() Kind            { return KindLike }
func (e *LikeExpr) Header() *Header       { return &e.header }
func (e *LikeExpr) ValueType() types.Kind { return types.KindBoolean }
func (e *LikeExpr) ValueLength() int      { return 0 }
func (e *LikeExpr) Child() Expr           { return e.child }
func (e *LikeExpr) Pattern() Expr         { return e.pattern }
func (e *LikeExpr) Negated() bool         { return e.negated }

func (e *LikeExpr) EvalRow(t tuple.Tuple) (types.Value, error) {
	cv, err := e.child.EvalRow(t)
	if err != nil {
		return types.Value{}, err
	}
	pv, err := e.pattern.EvalRow(t)
	if err != nil {
		return types.Value{}, err
	}
	if cv.IsNull() || pv.IsNull() {
		return types.Null(), nil
	}
	matched := likeMatch(cv.String(), pv.String()) == likeTrue
	if e.negated {
		matched = !matched
	}
	return types.NewBool(matched), nil
}

func (e *LikeExpr) EvalColumn(*chunk.Chunk) (*chunk.Column, error) {
	return nil, errColumnUnimplemented(KindLike)
}

// likeResult is the three-valued outcome of a recursive LIKE match.
// Beyond true/false, abort signals that no further backtracking over
// the remaining text can change the outcome, letting a caller exploring
// a '%' wildcard's possible offsets stop early instead of exhausting
// every remaining suffix.
type likeResult int

const (
	likeFalse likeResult = iota
	likeTrue
	likeAbort
)

// likeMatch matches text against pattern.
func likeMatch(text, pattern string) likeResult {
	for {
		if pattern == "" {
			if text == "" {
				return likeTrue
			}
			return likeFalse
		}

		switch pattern[0] {
		case '\\':
			pattern = pattern[1:]
			if pattern == "" || text == "" || text[0] != pattern[0] {
				return likeFalse
			}
			text, pattern = text[1:], pattern[1:]

		case '_':
			if text == "" {
				return likeAbort
			}
			text, pattern = text[1:], pattern[1:]

		case '%':
			for len(pattern) > 0 && pattern[0] == '%' {
				pattern = pattern[1:]
			}
			if pattern == "" {
				return likeTrue
			}
			for i := 0; i <= len(text); i++ {
				switch likeMatch(text[i:], pattern) {
				case likeTrue:
					return likeTrue
				case likeAbort:
					return likeFalse
				}
			}
			return likeFalse

		default:
			if text == "" {
				return likeAbort
			}
			if text[0] != pattern[0] {
				return likeFalse
			}
			text, pattern = text[1:], pattern[1:]
		}
	}
}
