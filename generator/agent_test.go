package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM returns replies in order and records every prompt it sees.
type scriptedLLM struct {
	replies []string
	errs    []error
	calls   []Prompt
}

func (s *scriptedLLM) Complete(ctx context.Context, p Prompt) (string, error) {
	i := len(s.calls)
	s.calls = append(s.calls, p)
	if _, ok := ctx.Deadline(); !ok {
		return "", errors.New("stage called without deadline")
	}
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.replies) {
		return s.replies[i], nil
	}
	return "", nil
}

const sampleArticle = "# Climate change\n\n## Introduction\n\nWarming is measured (IPCC, 2021).\n\n## Conclusion\n\nDone.\n\nReferences\n[1] AR6 – IPCC (2021). https://www.ipcc.ch/report/ar6/"

func newTestAgent(t *testing.T, llm LLMClient, refine bool) *Agent {
	t.Helper()
	a, err := NewAgent(llm, AgentOptions{Refine: refine})
	require.NoError(t, err)
	return a
}

func TestNewAgentRequiresClient(t *testing.T) {
	_, err := NewAgent(nil, AgentOptions{})
	assert.Error(t, err)
}

func TestGenerate_BlankTopicMakesNoCalls(t *testing.T) {
	for _, topic := range []string{"", " ", "\t\n", "  "} {
		llm := &scriptedLLM{}
		a := newTestAgent(t, llm, true)
		_, err := a.Generate(context.Background(), ArticleRequest{Topic: topic})
		assert.ErrorIs(t, err, ErrTopicRequired, "topic %q", topic)
		assert.Empty(t, llm.calls)
	}
}

func TestGenerate_TwoStageHappyPath(t *testing.T) {
	refined := strings.Replace(sampleArticle, "Warming is measured", "Warming is tracked", 1)
	llm := &scriptedLLM{replies: []string{"  " + sampleArticle + "\n", refined}}
	a := newTestAgent(t, llm, true)

	res, err := a.Generate(context.Background(), ArticleRequest{Topic: "Climate change", Tone: ToneAcademic, Length: LengthShort})
	require.NoError(t, err)
	require.Len(t, llm.calls, 2)

	assert.Contains(t, llm.calls[0].User, "600–800 words")
	assert.Contains(t, llm.calls[0].User, "academic")
	assert.Equal(t, DefaultDraftTemperature, llm.calls[0].Temperature)
	assert.Equal(t, DefaultRefineTemperature, llm.calls[1].Temperature)
	assert.True(t, strings.HasSuffix(llm.calls[1].User, sampleArticle), "refine prompt carries the trimmed draft")

	assert.Equal(t, sampleArticle, res.BaseArticle)
	assert.Equal(t, refined, res.Article)
	assert.True(t, HasReferences(res.Article))
}

func TestGenerate_EmptyDraftSkipsRefine(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"   ", sampleArticle}}
	a := newTestAgent(t, llm, true)

	_, err := a.Generate(context.Background(), ArticleRequest{Topic: "Soil"})
	assert.ErrorIs(t, err, ErrEmptyDraft)
	assert.Len(t, llm.calls, 1)
}

func TestGenerate_EmptyRefineFails(t *testing.T) {
	llm := &scriptedLLM{replies: []string{sampleArticle, "\n"}}
	a := newTestAgent(t, llm, true)

	res, err := a.Generate(context.Background(), ArticleRequest{Topic: "Soil"})
	assert.ErrorIs(t, err, ErrEmptyRefined)
	assert.Empty(t, res.BaseArticle)
	assert.Len(t, llm.calls, 2)
}

func TestGenerate_RefineDisabled(t *testing.T) {
	llm := &scriptedLLM{replies: []string{sampleArticle}}
	a := newTestAgent(t, llm, false)

	res, err := a.Generate(context.Background(), ArticleRequest{Topic: "Soil"})
	require.NoError(t, err)
	assert.Len(t, llm.calls, 1)
	assert.Equal(t, sampleArticle, res.Article)
	assert.Empty(t, res.BaseArticle)
}

func TestGenerate_TransportErrorAborts(t *testing.T) {
	boom := errors.New("429 quota exceeded")

	llm := &scriptedLLM{errs: []error{boom}}
	_, err := newTestAgent(t, llm, true).Generate(context.Background(), ArticleRequest{Topic: "Soil"})
	require.ErrorIs(t, err, boom)
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "draft", se.Stage)
	assert.Len(t, llm.calls, 1)

	llm = &scriptedLLM{replies: []string{sampleArticle}, errs: []error{nil, boom}}
	res, err := newTestAgent(t, llm, true).Generate(context.Background(), ArticleRequest{Topic: "Soil"})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "refine", se.Stage)
	assert.Equal(t, Result{}, res)
}

func TestGenerate_WithMockLLM(t *testing.T) {
	a := newTestAgent(t, MockLLM{}, true)
	res, err := a.Generate(context.Background(), ArticleRequest{Topic: "Urban trees"})
	require.NoError(t, err)
	assert.Equal(t, "Urban trees", ExtractTitle(res.Article))
	assert.Equal(t, res.BaseArticle, res.Article)
	assert.True(t, HasReferences(res.Article))
}
