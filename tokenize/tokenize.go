// Package tokenize splits clinical note text into sentences of word tokens
// with absolute character offsets. It is a small rule based stand-in for a
// full NLP front end.
package tokenize

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	sent "github.com/revelaction/rwe/sentence"
)

var ErrEmpty = errors.New("empty text")

type Tokenizer interface {
	Tokenize(name, text string) (*sent.Document, error)
}

var (
	// anonymization tags (see Preprocess), words with inner
	// apostrophes, hyphens or dots, or any other non space character
	tokenRgx = regexp.MustCompile(`\|{3}\S+?\|{3,}|[\p{L}\p{N}]+(?:['’.\-][\p{L}\p{N}]+)*|\S`)

	anonRgx = regexp.MustCompile(`\[\*\*[a-zA-Z0-9_/()\- ]+?\*\*\]`)
	qmRgx   = regexp.MustCompile(`\?{3,}`)
)

// abbreviations never end a sentence, compared lower-cased without the dot.
var abbreviations = map[string]bool{
	"dr": true, "mr": true, "mrs": true, "ms": true, "pt": true, "vs": true,
	"e.g": true, "i.e": true, "approx": true, "b.i.d": true, "t.i.d": true, "q.d": true,
}

// Rule is a regexp tokenizer. Sentences end at a line break (when
// SplitLines) or after a terminal '.', '!' or '?' followed by a token that
// does not start lower-case.
type Rule struct {
	SplitLines bool
}

func New() *Rule {
	return &Rule{SplitLines: true}
}

type token struct {
	text  string
	start int // rune offset
}

func (t *Rule) Tokenize(name, text string) (*sent.Document, error) {
	var (
		sentences [][]token
		curr      []token
	)

	flush := func() {
		if len(curr) > 0 {
			sentences = append(sentences, curr)
			curr = nil
		}
	}

	runeOffset, byteOffset := 0, 0
	for _, loc := range tokenRgx.FindAllStringIndex(text, -1) {
		gap := text[byteOffset:loc[0]]
		runeOffset += utf8.RuneCountInString(gap)

		tok := token{text: text[loc[0]:loc[1]], start: runeOffset}

		if t.SplitLines && strings.Contains(gap, "\n") {
			flush()
		} else if t.endsSentence(curr, tok) {
			flush()
		}

		curr = append(curr, tok)
		runeOffset += utf8.RuneCountInString(tok.text)
		byteOffset = loc[1]
	}
	flush()

	if len(sentences) == 0 {
		return nil, ErrEmpty
	}

	ss := make([]*sent.Sentence, len(sentences))
	for i, toks := range sentences {
		words := make([]string, len(toks))
		offsets := make([]int, len(toks))
		for k, tok := range toks {
			words[k] = tok.text
			offsets[k] = tok.start
		}

		s, err := sent.NewSentence(i, words, offsets)
		if err != nil {
			return nil, err
		}
		ss[i] = s
	}

	return sent.NewDocument(name, ss)
}

// endsSentence reports whether curr is a finished sentence when next
// follows it.
func (t *Rule) endsSentence(curr []token, next token) bool {
	n := len(curr)
	if n == 0 {
		return false
	}

	last := curr[n-1].text
	if last != "." && last != "!" && last != "?" {
		return false
	}

	if last == "." && n > 1 && abbreviations[strings.ToLower(curr[n-2].text)] {
		return false
	}

	r, _ := utf8.DecodeRuneInString(next.text)
	return !unicode.IsLower(r)
}

// Preprocess rewrites MIMIC anonymization tags such as
// "[**First Name8 (NamePattern2)**]" to "|||First_Name8_|NamePattern2||||"
// and runs of 3 or more question marks to bullets. The rune length of the
// text is unchanged so offsets stay valid.
func Preprocess(text string) string {
	text = anonRgx.ReplaceAllStringFunc(text, func(m string) string {
		m = strings.Replace(m, "[**", "|||", 1)
		m = strings.Replace(m, "**]", "|||", 1)
		m = strings.NewReplacer("/", "|", "(", "|", ")", "|", " ", "_").Replace(m)
		return m
	})

	return qmRgx.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Repeat("•", len(m))
	})
}
