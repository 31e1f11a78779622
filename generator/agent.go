package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	ErrTopicRequired = errors.New("topic is required")
	ErrEmptyDraft    = errors.New("model returned an empty response for the base article")
	ErrEmptyRefined  = errors.New("model returned an empty response for the refined article")
)

const DefaultStageTimeout = 90 * time.Second

// StageError wraps a transport or capability failure with the stage it happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// AgentOptions configures the pipeline. Zero values pick the defaults.
type AgentOptions struct {
	Refine            bool
	DraftTemperature  float64
	RefineTemperature float64
	StageTimeout      time.Duration
	Logger            *zap.Logger
}

// Agent runs the draft stage and, when enabled, the refine stage.
type Agent struct {
	llm  LLMClient
	opts AgentOptions
	log  *zap.Logger
}

func NewAgent(llm LLMClient, opts AgentOptions) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if opts.DraftTemperature == 0 {
		opts.DraftTemperature = DefaultDraftTemperature
	}
	if opts.RefineTemperature == 0 {
		opts.RefineTemperature = DefaultRefineTemperature
	}
	if opts.StageTimeout <= 0 {
		opts.StageTimeout = DefaultStageTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Agent{llm: llm, opts: opts, log: log}, nil
}

// Refines reports whether the refine stage is enabled.
func (a *Agent) Refines() bool { return a.opts.Refine }

// Generate validates req, writes the draft and optionally refines it.
// Any failure aborts the whole run; no partial result is returned.
func (a *Agent) Generate(ctx context.Context, req ArticleRequest) (Result, error) {
	req = req.Normalize()
	if req.Topic == "" {
		return Result{}, ErrTopicRequired
	}

	draft, err := a.stage(ctx, "draft", BuildDraftPrompt(req, a.opts.DraftTemperature))
	if err != nil {
		if errors.Is(err, errBlankOutput) {
			return Result{}, ErrEmptyDraft
		}
		return Result{}, err
	}
	if !a.opts.Refine {
		return Result{Article: draft}, nil
	}

	refined, err := a.stage(ctx, "refine", BuildRefinePrompt(draft, a.opts.RefineTemperature))
	if err != nil {
		if errors.Is(err, errBlankOutput) {
			return Result{}, ErrEmptyRefined
		}
		return Result{}, err
	}
	return Result{Article: refined, BaseArticle: draft}, nil
}

func (a *Agent) stage(ctx context.Context, name string, prompt Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.StageTimeout)
	defer cancel()

	start := time.Now()
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		a.log.Warn("generation stage failed", zap.String("stage", name), zap.Error(err))
		return "", &StageError{Stage: name, Err: err}
	}
	text, err := PostProcess(raw)
	if err != nil {
		a.log.Warn("generation stage returned empty text", zap.String("stage", name))
		return "", err
	}
	a.log.Debug("generation stage done",
		zap.String("stage", name),
		zap.Int("chars", len(text)),
		zap.Bool("references", HasReferences(text)),
		zap.Duration("took", time.Since(start)))
	return text, nil
}
