package ask

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/askdata/askdata/internal/nl2sql"
	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/resultset"
)

type Executor interface {
	Execute(ctx context.Context, sqlText string) (resultset.ResultSet, error)
}

type Response struct {
	SQL     string              `json:"sql"`
	Results resultset.ResultSet `json:"results"`
}

// Outcome is the trace of one request through the pipeline.
type Outcome struct {
	States []State
	SQL    string
}

// Final returns the last state reached.
func (o Outcome) Final() State {
	if len(o.States) == 0 {
		return ""
	}
	return o.States[len(o.States)-1]
}

func (o *Outcome) enter(state State) {
	o.States = append(o.States, state)
}

type Pipeline struct {
	Prompts   nl2sql.PromptBuilder
	Completer nl2sql.Completer
	Executor  Executor
	Logger    *slog.Logger
	Clock     func() time.Time
}

func (p *Pipeline) Ask(ctx context.Context, question string) (Response, error) {
	resp, _, err := p.Run(ctx, question)
	return resp, err
}

// Run answers question and also returns the states the request went through.
// One oracle call and at most one query are made; nothing is retried.
func (p *Pipeline) Run(ctx context.Context, question string) (Response, Outcome, error) {
	var outcome Outcome
	outcome.enter(StateReceived)

	prompt := p.Prompts.Build(question)
	outcome.enter(StatePrompted)

	started := p.now()
	completion, err := p.Completer.Complete(ctx, prompt)
	observability.ObserveOracleLatency(p.now().Sub(started))
	if err != nil {
		var oracleErr *nl2sql.OracleError
		if !errors.As(err, &oracleErr) {
			err = &nl2sql.OracleError{Err: err}
		}
		return p.fail(ctx, &outcome, StateOracleFailed, err)
	}
	outcome.enter(StateCompleted)

	verdict := nl2sql.Sanitize(completion)
	outcome.SQL = verdict.Query
	if !verdict.Accepted {
		return p.fail(ctx, &outcome, StateRejected, verdict.Err())
	}
	outcome.enter(StateSanitized)

	started = p.now()
	results, err := p.Executor.Execute(ctx, verdict.Query)
	if err != nil {
		observability.ObserveQuery(p.now().Sub(started), -1)
		return p.fail(ctx, &outcome, StateExecutionFailed, err)
	}
	if results == nil {
		results = resultset.ResultSet{}
	}
	observability.ObserveQuery(p.now().Sub(started), len(results))
	outcome.enter(StateExecuted)

	outcome.enter(StateResponded)
	observability.IncrementAskOutcome(string(StateResponded))
	p.logger().InfoContext(ctx, "ask answered",
		slog.String("sql", verdict.Query),
		slog.Int("rows", len(results)),
	)
	return Response{SQL: verdict.Query, Results: results}, outcome, nil
}

func (p *Pipeline) fail(ctx context.Context, outcome *Outcome, state State, err error) (Response, Outcome, error) {
	outcome.enter(state)
	observability.IncrementAskOutcome(string(state))

	level := slog.LevelError
	if state == StateRejected {
		level = slog.LevelWarn
	}
	p.logger().Log(ctx, level, "ask failed",
		slog.String("state", string(state)),
		slog.String("sql", outcome.SQL),
		slog.Any("error", err),
	)
	return Response{}, *outcome, &StageError{State: state, Err: err}
}

func (p *Pipeline) now() time.Time {
	if p.Clock == nil {
		return time.Now()
	}
	return p.Clock()
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.Logger
}
