package generator

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Tone steers the register of the generated article.
type Tone string

const (
	ToneNeutral    Tone = "neutral"
	ToneAcademic   Tone = "academic"
	TonePersuasive Tone = "persuasive"
)

// Length selects a word-count band.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// ArticleRequest describes the article a caller wants written.
type ArticleRequest struct {
	Topic  string
	Tone   Tone
	Length Length
}

// Normalize trims the topic and fills in the defaults applied when a field is omitted.
// Unrecognised tone/length values are kept as-is; the instruction lookup handles them.
func (r ArticleRequest) Normalize() ArticleRequest {
	r.Topic = norm.NFC.String(strings.TrimSpace(r.Topic))
	if r.Tone == "" {
		r.Tone = ToneNeutral
	}
	if r.Length == "" {
		r.Length = LengthMedium
	}
	return r
}

// InstructionPair holds the fragments inserted into the draft prompt.
type InstructionPair struct {
	LengthInstruction string
	ToneInstruction   string
}

// Result is the pipeline output. BaseArticle is empty when refinement is off.
type Result struct {
	Article     string
	BaseArticle string
}
