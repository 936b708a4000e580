// Package split segments text for glyph layout.
//
// Text is cut into newlines, whitespace and words. A word is a run of
// characters of the same class: ASCII letters (with inner apostrophes),
// numbers (with inner '.', '/' and '%'), or letters of one uncased script
// such as Han. Every other character is a word by itself. Layout can break
// a line between words but never inside one.
package split

import (
	"iter"
	"math"
	"unicode"
	"unicode/utf8"

	"github.com/go-text/typesetting/language"
)

// Kind is the kind of a Token.
type Kind uint8

const (
	Newline Kind = iota
	Whitespace
	Char      // a character that is a word by itself
	WordStart // first character of a word
	WordNext  // later character of a word
	WordEnd   // end of the word; carries no character
)

func (k Kind) String() string {
	switch k {
	case Newline:
		return "newline"
	case Whitespace:
		return "whitespace"
	case Char:
		return "char"
	case WordStart:
		return "wordStart"
	case WordNext:
		return "wordNext"
	case WordEnd:
		return "wordEnd"
	}
	return "unknown"
}

// HasChar reports whether tokens of kind k carry a character to draw.
func (k Kind) HasChar() bool {
	return k == Char || k == WordStart || k == WordNext
}

// Token is one segment of the text. Index is the rune index of the
// character, or -1 for WordEnd. For merged whitespace it is the index of
// the last blank of the run.
type Token struct {
	Kind  Kind
	Index int
	Char  rune
}

// Split segments s. With words false every non-blank character is a Char
// token. With mergeSpace a run of blanks yields a single Whitespace token;
// the run ends at a non-blank and swallows newlines after its first blank.
// A newline that starts a run is always its own Newline token.
func Split(s string, words, mergeSpace bool) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		sp := splitter{text: []rune(s), words: words, merge: mergeSpace}
		for {
			tok, ok := sp.next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

type splitter struct {
	text  []rune
	i     int
	words bool
	merge bool
	class int // class of the open word, 0 outside words
}

func (sp *splitter) next() (Token, bool) {
	if sp.i >= len(sp.text) {
		return Token{}, false
	}
	c := sp.text[sp.i]
	if sp.class != 0 {
		sp.i++
		if sp.i < len(sp.text) {
			if next := sp.text[sp.i]; classOf(next, c) == sp.class {
				return Token{Kind: WordNext, Index: sp.i, Char: next}, true
			}
		}
		sp.class = 0
		return Token{Kind: WordEnd, Index: -1}, true
	}

	switch {
	case c == '\n':
		sp.i++
		return Token{Kind: Newline, Index: sp.i - 1}, true
	case unicode.IsSpace(c):
		sp.i++
		for sp.merge && sp.i < len(sp.text) && unicode.IsSpace(sp.text[sp.i]) {
			sp.i++
		}
		return Token{Kind: Whitespace, Index: sp.i - 1}, true
	case sp.words:
		if sp.class = classOf(c, 0); sp.class != 0 {
			return Token{Kind: WordStart, Index: sp.i, Char: c}, true
		}
	}
	sp.i++
	return Token{Kind: Char, Index: sp.i - 1, Char: c}, true
}

// Word classes. Arabic letters and the Arabic comma form a class per
// character; other uncased scripts use their script tag.
const (
	classNone   = 0
	classLatin  = 1
	classNumber = math.MaxInt
	classRune   = 2 // offset added to a rune to form its own class
)

func classOf(c, prev rune) int {
	if c < utf8.RuneSelf {
		switch {
		case isASCIILetter(c):
			return classLatin
		case isASCIIDigit(c):
			return classNumber
		case c == '/' || c == '.' || c == '%':
			if isASCIIDigit(prev) {
				return classNumber
			}
		case c == '\'':
			if isASCIILetter(prev) {
				return classLatin
			}
		}
		return classNone
	}
	if isAlphabetic(c) && !isCased(c) {
		if isArabic(c) {
			return classRune + int(c)
		}
		return int(language.LookupScript(c))
	}
	if c == '،' {
		return classRune + int(c)
	}
	return classNone
}

func isASCIILetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isASCIIDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isAlphabetic(c rune) bool {
	return unicode.In(c, unicode.Letter, unicode.Nl, unicode.Other_Alphabetic)
}

func isCased(c rune) bool {
	return unicode.In(c, unicode.Lu, unicode.Ll, unicode.Lt)
}

func isArabic(c rune) bool {
	switch {
	case 0x0600 <= c && c <= 0x06FF,
		0x0750 <= c && c <= 0x077F,
		0x08A0 <= c && c <= 0x08FF,
		0xFB50 <= c && c <= 0xFDFF,
		0xFE70 <= c && c <= 0xFEFF:
		return true
	}
	return false
}
