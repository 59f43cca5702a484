package sentence

// LeftSpan returns the span covering up to window words strictly to the left
// of sp. A window of 0 gives an empty span; a negative window takes every
// word to the left.
func LeftSpan(sp *Span, window int) *Span {
	s := sp.sent
	j := sp.WordStart()

	i := 0
	if window >= 0 {
		i = max(j-window, 0)
	}

	if i >= j {
		return NewSpan(s, sp.CharStart, sp.CharStart-1)
	}

	return NewSpan(s, s.charOffsets[i], s.wordEndChar(j-1))
}

// RightSpan returns the span covering up to window words strictly to the
// right of sp. A window of 0 gives an empty span; a negative window takes
// every word to the right.
func RightSpan(sp *Span, window int) *Span {
	s := sp.sent
	i := sp.WordEnd() + 1

	j := len(s.Words)
	if window >= 0 {
		j = min(i+window, len(s.Words))
	}

	if i >= j {
		return NewSpan(s, sp.CharEnd+1, sp.CharEnd)
	}

	return NewSpan(s, s.charOffsets[i], s.wordEndChar(j-1))
}

// BetweenSpan returns the words between a and b, in any order. It returns
// false when the spans are adjacent, overlap or live in different sentences.
func BetweenSpan(a, b *Span) (*Span, bool) {
	if a.sent != b.sent {
		return nil, false
	}

	if b.CharStart < a.CharStart {
		a, b = b, a
	}

	i, j := a.WordEnd()+1, b.WordStart()
	if i >= j {
		return nil, false
	}

	s := a.sent
	return NewSpan(s, s.charOffsets[i], s.wordEndChar(j-1)), true
}

// TokenDistance is the number of words between a and b. Overlapping spans
// give a negative distance.
func TokenDistance(a, b *Span) int {
	if b.CharStart < a.CharStart {
		a, b = b, a
	}
	return b.WordStart() - (a.WordEnd() + 1)
}
