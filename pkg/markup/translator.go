// Package markup translates the fixed tag vocabulary embedded in node labels
// and values into LaTeX markup.
//
// The vocabulary is tiny and closed: <b>, <i>, <u>, <sup>, <sub>, <null/> and
// <bar/>. Superscript, subscript, null and bar require TeX math mode; nested
// math-requiring tags share a single pair of $ delimiters, tracked with a
// depth counter rather than a toggle. <null/> and <bar/> also contribute the
// literal words "Null" and "Bar" to a separate identifier-safe accumulator,
// which the diagram exporter uses to derive node identifiers.
//
// The translator never fails. Invalid input (attributes on a tag, an
// unrecognized tag, an unclosed tag, or a close tag that does not match the
// innermost open tag) flips a sticky Valid flag to false, and callers are
// expected to fall back to the raw text. One violation anywhere invalidates
// the whole input.
package markup

import (
	"strings"
)

// texMap maps each recognized tag to its LaTeX open sequence. Every
// recognized tag closes with "}".
var texMap = map[string]string{
	"b":    `\textbf{`,
	"i":    `\textit{`,
	"u":    `\underline{`,
	"sup":  "^{",
	"sub":  "_{",
	"null": `{\O`,
	"bar":  `^{\prime`,
}

// mathRequired lists the tags that must appear inside TeX math mode.
var mathRequired = map[string]bool{
	"sup":  true,
	"sub":  true,
	"null": true,
	"bar":  true,
}

// specials maps tags that contribute a literal word to the identifier-safe
// accumulator.
var specials = map[string]string{
	"null": "Null",
	"bar":  "Bar",
}

// Result holds the outcome of a translation.
type Result struct {
	TeX   string // translated LaTeX markup
	Plain string // identifier-safe text (tags stripped, specials spelled out)
	Valid bool   // false if the input violated the tag grammar anywhere
}

// Translator is a streaming, single-pass markup translator. Reset it before
// each independent input, Feed it text (append-only), then Close it before
// reading the Result. The zero value is not ready for use; call New or Reset
// first.
type Translator struct {
	tagStack  []string
	mathDepth int
	tex       strings.Builder
	plain     strings.Builder
	valid     bool
}

// New returns a Translator ready to accept input.
func New() *Translator {
	t := &Translator{}
	t.Reset()
	return t
}

// Reset clears all state so the Translator can process a new input.
func (t *Translator) Reset() {
	t.tagStack = t.tagStack[:0]
	t.mathDepth = 0
	t.tex.Reset()
	t.plain.Reset()
	t.valid = true
}

// Feed consumes the next chunk of input. Chunks may split anywhere except
// inside a tag; labels and values are short, so callers feed them whole.
func (t *Translator) Feed(s string) {
	for len(s) > 0 {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			t.text(s)
			return
		}
		if lt > 0 {
			t.text(s[:lt])
			s = s[lt:]
		}
		gt := strings.IndexByte(s, '>')
		if gt < 0 {
			// A dangling "<" is not a tag. Pass it through and give up
			// on validity.
			t.valid = false
			t.text(s)
			return
		}
		t.tag(s[1:gt])
		s = s[gt+1:]
	}
}

// Close marks the end of input. Tags left open invalidate the translation.
func (t *Translator) Close() {
	if len(t.tagStack) > 0 {
		t.valid = false
	}
}

// Result returns the accumulated translation. Call after Close.
func (t *Translator) Result() Result {
	return Result{
		TeX:   t.tex.String(),
		Plain: t.plain.String(),
		Valid: t.valid,
	}
}

// Valid reports whether the input seen so far conforms to the tag grammar.
func (t *Translator) Valid() bool {
	return t.valid
}

// Translate runs a complete input through a fresh Translator.
func Translate(s string) Result {
	t := New()
	t.Feed(s)
	t.Close()
	return t.Result()
}

// text appends literal input to both accumulators.
func (t *Translator) text(s string) {
	t.tex.WriteString(s)
	t.plain.WriteString(s)
}

// tag dispatches the content between "<" and ">".
func (t *Translator) tag(raw string) {
	closing := strings.HasPrefix(raw, "/")
	raw = strings.TrimPrefix(raw, "/")
	selfClosing := !closing && strings.HasSuffix(raw, "/")
	raw = strings.TrimSuffix(raw, "/")

	fields := strings.Fields(raw)
	name := ""
	if len(fields) > 0 {
		name = strings.ToLower(fields[0])
	}
	if len(fields) != 1 {
		// Attributes (or an empty tag) are never part of the vocabulary.
		t.valid = false
	}

	if closing {
		t.closeTag(name)
		return
	}
	t.openTag(name)
	if selfClosing {
		t.closeTag(name)
	}
}

func (t *Translator) openTag(name string) {
	open, known := texMap[name]
	if !known {
		// Unrecognized tags are copied through literally but poison the
		// whole input.
		t.valid = false
		t.tex.WriteString("<" + name + ">")
	} else {
		t.tagStack = append(t.tagStack, name)
		if mathRequired[name] {
			if t.mathDepth == 0 {
				t.tex.WriteString("$")
			}
			t.mathDepth++
		}
		t.tex.WriteString(open)
	}
	if word, ok := specials[name]; ok {
		t.plain.WriteString(word)
	}
}

func (t *Translator) closeTag(name string) {
	if len(t.tagStack) == 0 {
		t.valid = false
	} else {
		top := t.tagStack[len(t.tagStack)-1]
		t.tagStack = t.tagStack[:len(t.tagStack)-1]
		if top != name {
			t.valid = false
		}
	}

	if _, known := texMap[name]; known {
		t.tex.WriteString("}")
	} else {
		t.tex.WriteString("</" + name + ">")
	}

	if mathRequired[name] && t.mathDepth > 0 {
		t.mathDepth--
		if t.mathDepth == 0 {
			t.tex.WriteString("$")
		}
	}
}
