// Package pipeline is the conversational core: it classifies an incoming
// message, extracts and persists transactions or translates, scopes and
// executes questions, and synthesizes the natural-language reply. Each
// message is one independent, synchronous run; the only shared resource is
// the storage pool.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvoronov/fintalk/internal/domain"
	"github.com/dvoronov/fintalk/internal/generator"
	"github.com/dvoronov/fintalk/internal/logger"
	"github.com/dvoronov/fintalk/internal/sqlscope"
	"github.com/dvoronov/fintalk/internal/storage"
)

// Canned replies. Internal diagnostics are logged, never echoed.
const (
	// ReplyApology is the generic user-visible failure message.
	ReplyApology = "Sorry, something went wrong on my end. Please try again."

	// ReplyNotUnderstood is returned when extraction produced no usable
	// structure; a rephrase usually fixes it, so it is not a system fault.
	ReplyNotUnderstood = "Hmm, I couldn't quite make sense of that. Could you rephrase it?"
)

// errNotUnderstood short-circuits the record branch on an empty extraction
// result. It never leaves HandleMessage.
var errNotUnderstood = errors.New("extraction produced no usable structure")

// State holds the values one message accumulates while moving through the
// pipeline. Each run owns its State; nothing here is shared.
type State struct {
	Text   string
	UserID int64
	Now    time.Time

	Intent      domain.Intent
	Transaction *domain.Transaction
	Query       string
	Scoped      sqlscope.Scoped
	Result      *storage.Result
	Saved       bool
	Reply       string
}

// Step is a single stage of a pipeline run.
type Step interface {
	Execute(ctx context.Context, st *State) error
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first error.
func (p *Pipeline) Execute(ctx context.Context, st *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, st); err != nil {
			return fmt.Errorf("pipeline step %d: %w", i+1, err)
		}
	}
	return nil
}

// ExtractStep converts the message into a transaction and attaches the
// requesting user's identity.
type ExtractStep struct {
	extractor *Extractor
}

func (s *ExtractStep) Execute(ctx context.Context, st *State) error {
	tx, err := s.extractor.Extract(ctx, st.Text, st.Now)
	if err != nil {
		return err
	}
	if tx == nil {
		return errNotUnderstood
	}
	tx.UserID = st.UserID
	st.Transaction = tx
	return nil
}

// PersistStep appends the transaction to the ledger. A storage failure is
// recorded in st.Saved rather than aborting the run, so the outcome reply
// can tell the user the save did not take.
type PersistStep struct {
	store storage.Store
}

func (s *PersistStep) Execute(ctx context.Context, st *State) error {
	if err := s.store.InsertTransaction(ctx, st.Transaction); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Msg("transaction persistence failed")
		st.Saved = false
		return nil
	}
	st.Saved = true
	return nil
}

// OutcomeReplyStep synthesizes the record-branch confirmation.
type OutcomeReplyStep struct {
	synthesizer *Synthesizer
}

func (s *OutcomeReplyStep) Execute(ctx context.Context, st *State) error {
	reply, err := s.synthesizer.SynthesizeOutcome(ctx, st.Saved)
	if err != nil {
		return err
	}
	st.Reply = reply
	return nil
}

// TranslateStep converts the question into an unscoped query.
type TranslateStep struct {
	translator *Translator
}

func (s *TranslateStep) Execute(ctx context.Context, st *State) error {
	query, err := s.translator.Translate(ctx, st.Text)
	if err != nil {
		return err
	}
	st.Query = query
	return nil
}

// ScopeStep pins the query to the requesting user. A scoping violation
// aborts the run; an unscoped query must never reach storage.
type ScopeStep struct{}

func (s *ScopeStep) Execute(ctx context.Context, st *State) error {
	scoped, err := sqlscope.Scope(st.Query, st.UserID)
	if err != nil {
		return err
	}
	st.Scoped = scoped
	return nil
}

// ExecuteStep runs the scoped query against storage.
type ExecuteStep struct {
	store storage.Store
}

func (s *ExecuteStep) Execute(ctx context.Context, st *State) error {
	result, err := s.store.Execute(ctx, st.Scoped)
	if err != nil {
		return err
	}
	st.Result = result
	return nil
}

// AnswerReplyStep synthesizes the query-branch answer.
type AnswerReplyStep struct {
	synthesizer *Synthesizer
}

func (s *AnswerReplyStep) Execute(ctx context.Context, st *State) error {
	reply, err := s.synthesizer.Synthesize(ctx, st.Text, st.Result)
	if err != nil {
		return err
	}
	st.Reply = reply
	return nil
}

// Assistant sequences the pipeline for incoming messages. This is the unit
// the HTTP and CLI surfaces invoke.
type Assistant struct {
	classifier *Classifier
	store      storage.Store
	record     *Pipeline
	query      *Pipeline
	now        func() time.Time
}

// Option customizes an Assistant.
type Option func(*Assistant)

// WithClock overrides the processing-instant source. Tests use this to make
// date/time substitution deterministic.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

// New wires an Assistant from its two collaborators.
func New(gen generator.Generator, store storage.Store, opts ...Option) *Assistant {
	synthesizer := NewSynthesizer(gen)

	a := &Assistant{
		classifier: NewClassifier(gen),
		store:      store,
		record: NewPipeline(
			&ExtractStep{extractor: NewExtractor(gen)},
			&PersistStep{store: store},
			&OutcomeReplyStep{synthesizer: synthesizer},
		),
		query: NewPipeline(
			&TranslateStep{translator: NewTranslator(gen)},
			&ScopeStep{},
			&ExecuteStep{store: store},
			&AnswerReplyStep{synthesizer: synthesizer},
		),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleMessage runs one message through the pipeline and always returns a
// usable reply. The error return is for the caller's logs: when it is
// non-nil the reply is the generic apology, with no internals leaked.
func (a *Assistant) HandleMessage(ctx context.Context, userID int64, text string) (string, error) {
	log := logger.FromContext(ctx)

	st := &State{
		Text:   text,
		UserID: userID,
		Now:    a.now(),
	}

	st.Intent = a.classifier.Classify(ctx, text)
	log.Debug().Str("intent", string(st.Intent)).Msg("message classified")

	var err error
	switch st.Intent {
	case domain.IntentRecord:
		err = a.record.Execute(ctx, st)
	case domain.IntentQuestion:
		err = a.query.Execute(ctx, st)
	case domain.IntentGenerationFailure:
		return ReplyApology, fmt.Errorf("pipeline: classification: %w", domain.ErrGeneration)
	default:
		return ReplyApology, fmt.Errorf("pipeline: unclassifiable message: %w", domain.ErrParse)
	}

	if errors.Is(err, errNotUnderstood) {
		return ReplyNotUnderstood, nil
	}
	if err != nil {
		return ReplyApology, err
	}

	return st.Reply, nil
}
