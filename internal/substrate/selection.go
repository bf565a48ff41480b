package substrate

// Selection is the scanning cursor a Resolver uses to scan one line: it
// pairs that line's pre-computed Token slice with a back-reference to the
// Document so a resolver can consult attributes earlier stages attached,
// then hand back (span, value) pairs via Finish without touching the
// AttributeStore directly.
type Selection struct {
	doc    *Document
	line   int
	tokens []Token
}

// Doc returns the Document this selection was drawn from, giving a
// resolver read access to attributes produced by earlier stages.
func (s Selection) Doc() *Document { return s.doc }

// Line returns the zero-based line index this selection scans.
func (s Selection) Line() int { return s.line }

// Tokens returns the full token sequence for the line, left to right.
func (s Selection) Tokens() []Token { return s.tokens }

// Text returns the full normalized text of the selection's line.
func (s Selection) Text() string { return s.doc.LineText(s.line) }

// TokenAt returns the token at index i and true, or the zero Token and
// false if i is out of range.
func (s Selection) TokenAt(i int) (Token, bool) {
	if i < 0 || i >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[i], true
}

// Match returns every token in the selection for which pred reports true,
// preserving left-to-right order.
func (s Selection) Match(pred func(Token) bool) []Token {
	var out []Token
	for _, t := range s.tokens {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// FindFrom returns the index of the first token at or after start for
// which pred reports true, or -1 if none match.
func (s Selection) FindFrom(start int, pred func(Token) bool) int {
	for i := start; i < len(s.tokens); i++ {
		if pred(s.tokens[i]) {
			return i
		}
	}
	return -1
}

// Find returns the index of the first token for which pred reports true,
// or -1 if none match.
func (s Selection) Find(pred func(Token) bool) int {
	return s.FindFrom(0, pred)
}

// SplitAt divides the selection's token slice into two sub-selections at
// token index i: tokens [0, i) and [i, len). Both halves retain the same
// line and document. Used by resolvers that find a trigger token (a
// modal verb, a negation word) and want to scan independently to its
// left and right.
func (s Selection) SplitAt(i int) (left, right Selection) {
	if i < 0 {
		i = 0
	}
	if i > len(s.tokens) {
		i = len(s.tokens)
	}
	left = Selection{doc: s.doc, line: s.line, tokens: s.tokens[:i]}
	right = Selection{doc: s.doc, line: s.line, tokens: s.tokens[i:]}
	return left, right
}

// Sub returns the sub-selection covering token indices [start, end).
func (s Selection) Sub(start, end int) Selection {
	if start < 0 {
		start = 0
	}
	if end > len(s.tokens) {
		end = len(s.tokens)
	}
	if start > end {
		start = end
	}
	return Selection{doc: s.doc, line: s.line, tokens: s.tokens[start:end]}
}

// Span returns the span covering every token currently in the selection.
// An empty selection (no tokens) returns a zero-length span at the start
// of the line.
func (s Selection) Span() Span {
	if len(s.tokens) == 0 {
		return MustSpan(s.line, 0, 0)
	}
	first := s.tokens[0].Span
	last := s.tokens[len(s.tokens)-1].Span
	span, err := NewSpan(s.line, first.Start().Char, last.End().Char)
	if err != nil {
		panic(err)
	}
	return span
}

// Finish packages value together with the selection's full span into an
// Assignment ready to be returned from Resolver.Resolve.
func (s Selection) Finish(value any) Assignment {
	return Assignment{Span: s.Span(), Value: value}
}

// FinishSpan packages value with an explicit span, used when the
// attribute covers a narrower or differently-shaped range than the
// selection itself (e.g. just the modal verb token, not the whole
// clause).
func (s Selection) FinishSpan(span Span, value any) Assignment {
	return Assignment{Span: span, Value: value}
}

// FinishTokens packages value with the span covering exactly the given
// tokens.
func (s Selection) FinishTokens(tokens []Token, value any) Assignment {
	if len(tokens) == 0 {
		return s.Finish(value)
	}
	first := tokens[0].Span
	last := tokens[len(tokens)-1].Span
	span, err := NewSpan(s.line, first.Start().Char, last.End().Char)
	if err != nil {
		panic(err)
	}
	return Assignment{Span: span, Value: value}
}
