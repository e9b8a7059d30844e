// Package pipeline wires the query-understanding components into the single
// operation the HTTP layer consumes. Every query is an independent,
// stateless unit of work; the pipeline holds no mutable state and is safe
// for concurrent use.
package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fundwise/fundfaq/internal/answer"
	"github.com/fundwise/fundfaq/internal/guardrail"
	"github.com/fundwise/fundfaq/internal/intent"
	"github.com/fundwise/fundfaq/internal/retrieval"
)

// ErrEmptyQuery indicates a blank query, rejected before any processing.
var ErrEmptyQuery = errors.New("query cannot be empty")

// Classifier derives an Intent for a query.
type Classifier interface {
	Classify(ctx context.Context, query string) intent.Intent
}

// Retriever fetches the supporting facts for a classified query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, it intent.Intent) (retrieval.Result, error)
}

// Composer turns retrieved facts into the final answer.
type Composer interface {
	Compose(ctx context.Context, query string, it intent.Intent, res retrieval.Result, guard guardrail.Result) answer.Answer
}

// Pipeline is the query-answering orchestrator. All collaborators are
// injected at construction; there is no ambient global state.
type Pipeline struct {
	classifier Classifier
	retriever  Retriever
	composer   Composer
	logger     *zap.Logger
}

// New creates a Pipeline.
func New(classifier Classifier, retriever Retriever, composer Composer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		classifier: classifier,
		retriever:  retriever,
		composer:   composer,
		logger:     logger,
	}
}

// AnswerQuery runs one query through guardrail, classification, retrieval
// and composition. The guardrail short-circuits advice-seeking queries
// before any external call. Retrieval failures are composed over an empty
// result rather than surfaced; the only error is a blank query.
func (p *Pipeline) AnswerQuery(ctx context.Context, query string) (answer.Answer, error) {
	if query == "" {
		return answer.Answer{}, ErrEmptyQuery
	}

	logger := p.logger.With(zap.String("query_id", uuid.NewString()))

	guard := guardrail.Classify(query)
	if guard.AdviceSeeking {
		logger.Info("query flagged as advice-seeking", zap.String("topic", string(guard.Topic)))
		return p.composer.Compose(ctx, query, intent.General(), retrieval.Result{}, guard), nil
	}

	it := p.classifier.Classify(ctx, query)
	logger.Debug("intent classified",
		zap.String("fact_type", string(it.FactType)),
		zap.String("scope", string(it.Scope)),
		zap.String("product", it.ProductName),
	)

	res, err := p.retriever.Retrieve(ctx, query, it)
	if err != nil {
		logger.Error("retrieval failed, composing without grounding data", zap.Error(err))
		res = retrieval.Result{}
	}

	return p.composer.Compose(ctx, query, it, res, guard), nil
}
