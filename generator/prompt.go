package generator

import (
	"fmt"
	"strings"
)

// Prompt is one submission to the LLM.
type Prompt struct {
	System      string
	User        string
	Temperature float64
}

const (
	DefaultDraftTemperature  = 0.7
	DefaultRefineTemperature = 0.5
)

const draftSystemPrompt = "You are an assistant that writes evidence-based, well-structured articles with inline citations and a reference list. Be transparent that references should be checked before use in real work."

const refineSystemPrompt = `You are an editor that rewrites articles into clear, concise prose.

Goals:
- Keep all facts, structure, and citations (inline and in the reference list).
- Use mostly short, flowing sentences.
- Reduce unnecessary jargon and complexity.
- Keep the article suitable for professional use (e.g. internal emails, reports, briefs).
- Do not remove the "References" section; just make it cleaner and easy to scan.`

// LengthInstruction maps a length to its word-count band.
func LengthInstruction(l Length) string {
	switch l {
	case LengthShort:
		return "Aim for around 600–800 words."
	case LengthMedium:
		return "Aim for around 1200–1500 words."
	case LengthLong:
		return "Aim for around 1800–2200 words."
	default:
		return "Aim for around 800–1200 words."
	}
}

// ToneInstruction maps a tone to its style fragment; anything unknown reads as neutral.
func ToneInstruction(t Tone) string {
	switch t {
	case ToneAcademic:
		return "Use an academic, evidence-based tone with careful wording."
	case TonePersuasive:
		return "Use a persuasive, confident tone while staying evidence-based."
	default:
		return "Use a neutral, explanatory tone that is accessible to an educated general audience."
	}
}

func Instructions(req ArticleRequest) InstructionPair {
	return InstructionPair{
		LengthInstruction: LengthInstruction(req.Length),
		ToneInstruction:   ToneInstruction(req.Tone),
	}
}

// BuildDraftPrompt compiles the first-pass prompt. The topic must already be validated.
func BuildDraftPrompt(req ArticleRequest, temperature float64) Prompt {
	ins := Instructions(req)

	var sb strings.Builder
	sb.WriteString("Write a detailed article on the following topic:\n\n")
	sb.WriteString(fmt.Sprintf("Topic: %s\n\n", strings.TrimSpace(req.Topic)))
	sb.WriteString(ins.ToneInstruction + "\n")
	sb.WriteString(ins.LengthInstruction + "\n\n")
	sb.WriteString("Requirements:\n")
	sb.WriteString("- Provide a clear introduction, body sections with headings, and a conclusion.\n")
	sb.WriteString("- Use inline citations in the text, e.g. (Author, Year) or [1], [2].\n")
	sb.WriteString("- After the conclusion, add a section titled \"References\" on its own line.\n")
	sb.WriteString("- Under \"References\", list each source on a new line in this format:\n")
	sb.WriteString("  [n] Title – Source / Organisation (Year). URL\n\n")
	sb.WriteString("Guidelines for references:\n")
	sb.WriteString("- Prefer official or reputable sources (.gov, .edu, .org, major journals, trusted news).\n")
	sb.WriteString("- Do NOT invent obviously fake URLs. Only use URLs you are reasonably confident about.\n")
	sb.WriteString("- If you are uncertain about exact titles or years, note that clearly (e.g. \"approx. 2020\").\n")
	sb.WriteString("- Do not use placeholder text like \"example.com\".\n")
	sb.WriteString("- Mention that references should be double-checked before using them in professional emails or documents.")

	return Prompt{
		System:      draftSystemPrompt,
		User:        sb.String(),
		Temperature: temperature,
	}
}

// BuildRefinePrompt asks for a clearer, shorter rewrite of draft. The draft is passed verbatim.
func BuildRefinePrompt(draft string, temperature float64) Prompt {
	return Prompt{
		System:      refineSystemPrompt,
		User:        "Rewrite the following article according to the goals above:\n\n" + draft,
		Temperature: temperature,
	}
}
