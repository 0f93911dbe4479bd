package insight

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ecotrack/ecotrack/llm"
)

// ErrNoActions is the single hard failure of the pipeline: the user has never
// recorded any action, so no advice is possible at all. Every other abnormal
// condition degrades internally and still yields a usable result.
var ErrNoActions = errors.New("no actions recorded yet")

// Result is the outcome of one advice cycle. Stale is true only on the
// "nothing new since last check" short-circuit, where Record carries the
// previously stored advice. PersistWarning is set when the best-effort write
// of a freshly generated record failed; the record is still returned.
type Result struct {
	Record         AdviceRecord
	Stale          bool
	PersistWarning string
}

// Engine runs the checkpointed incremental-insight pipeline: select actions
// newer than the last checkpoint, aggregate them, generate advice remotely
// with a deterministic local fallback, and persist the new checkpoint.
type Engine struct {
	store Store
	gen   llm.Client
	log   *zap.SugaredLogger
	now   func() time.Time
}

// NewEngine builds an engine. gen may be nil, in which case every cycle uses
// the local generator directly.
func NewEngine(store Store, gen llm.Client, log *zap.SugaredLogger) *Engine {
	return &Engine{store: store, gen: gen, log: log, now: time.Now}
}

// Advise runs one cycle for the given user over the full current action list.
// The caller is responsible for preventing re-entrant invocation for the same
// user; the engine itself runs a single sequential chain with at most one
// outstanding store read, one generative call, and one store write.
func (e *Engine) Advise(ctx context.Context, userID uint, actions []Action) (*Result, error) {
	rec := e.fetchContext(ctx, userID)
	if rec == nil && len(actions) == 0 {
		return nil, ErrNoActions
	}
	if rec == nil {
		rec = &UserRecord{}
	}

	newActions := SelectNewActions(actions, parseCheckpointKey(rec.LastCheckpointKey))

	if len(newActions) == 0 {
		if rec.LastCheckpointKey == "" {
			// Selector returned everything, so there was nothing at all.
			return nil, ErrNoActions
		}
		if prior, ok := e.priorAdvice(rec); ok {
			return &Result{Record: prior, Stale: true}, nil
		}
		// Checkpoint pointer exists but no decodable advice survived a prior
		// partial failure. Regenerate over the full history instead.
		if len(actions) == 0 {
			return nil, ErrNoActions
		}
		newActions = append([]Action(nil), actions...)
	}

	stats := Aggregate(newActions)

	record, err := e.generateRemote(ctx, newActions, stats)
	if err != nil {
		e.log.Infow("remote generation unavailable, using local advice", "user_id", userID, "reason", err)
		record = LocalAdvice(stats)
	}

	result := &Result{Record: record}
	e.persist(ctx, userID, record, result)
	return result, nil
}

// fetchContext reads the stored user record. A missing record or an
// unreachable store degrades to nil: the cycle proceeds as if no checkpoint
// exists rather than failing the whole operation.
func (e *Engine) fetchContext(ctx context.Context, userID uint) *UserRecord {
	rec, err := e.store.ReadUserRecord(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrRecordNotFound) {
			e.log.Warnw("store read failed, proceeding without checkpoint", "user_id", userID, "error", err)
		}
		return nil
	}
	return rec
}

// priorAdvice retrieves the advice stored at the checkpoint pointer, falling
// back to the greatest key in the mapping when the exact pointer key is
// missing after a prior partial failure. Keys are RFC3339 UTC strings, so the
// lexicographically greatest key is also the chronologically latest.
func (e *Engine) priorAdvice(rec *UserRecord) (AdviceRecord, bool) {
	blob, ok := rec.PreviousAdvice[rec.LastCheckpointKey]
	if !ok {
		var latest string
		for k := range rec.PreviousAdvice {
			if k > latest {
				latest = k
			}
		}
		if latest == "" {
			return AdviceRecord{}, false
		}
		blob = rec.PreviousAdvice[latest]
	}
	prior, err := DecodeAdviceRecord(blob)
	if err != nil {
		e.log.Warnw("stored advice blob undecodable", "error", err)
		return AdviceRecord{}, false
	}
	return prior, true
}

func (e *Engine) generateRemote(ctx context.Context, actions []Action, stats AggregateStats) (AdviceRecord, error) {
	if e.gen == nil {
		return AdviceRecord{}, llm.ErrNoCredentials
	}
	body, err := e.gen.Generate(ctx, buildPrompt(actions, stats))
	if err != nil {
		return AdviceRecord{}, err
	}
	return parseAdviceResponse(body)
}

// persist merge-writes the new record keyed by "now" and advances the
// pointer. The write is best-effort: failure is reported as a soft warning on
// the result and never reverts or retries the already-computed advice.
func (e *Engine) persist(ctx context.Context, userID uint, record AdviceRecord, result *Result) {
	blob, err := record.Encode()
	if err != nil {
		e.log.Warnw("advice record not serializable, checkpoint skipped", "user_id", userID, "error", err)
		result.PersistWarning = "advice could not be saved"
		return
	}
	key := e.now().UTC().Format(time.RFC3339)
	if err := e.store.SaveCheckpoint(ctx, userID, key, blob); err != nil {
		e.log.Warnw("checkpoint write failed", "user_id", userID, "key", key, "error", err)
		result.PersistWarning = "advice could not be saved"
	}
}

func parseCheckpointKey(key string) *time.Time {
	if key == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, key)
	if err != nil {
		return nil
	}
	return &ts
}
