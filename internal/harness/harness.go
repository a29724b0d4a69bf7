package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/itemmeta/internal/itemstack"
	"github.com/roach88/itemmeta/internal/tool"
	"github.com/roach88/itemmeta/internal/wire"
)

// Harness executes scenario steps against a single Metadata.
type Harness struct {
	meta   *itemstack.Metadata
	seq    int64
	logger *slog.Logger
}

// Run executes a scenario with logging suppressed.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger executes a scenario and returns the result.
//
// Each scenario starts from an empty Metadata. Steps run in order; a step
// whose outcome contradicts its expect clause is recorded as a failure and
// execution continues. Assertions are evaluated against the final state.
//
// The returned error is reserved for scenarios that cannot be executed at
// all, such as a typed setter whose value is not valid JSON.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &Harness{
		meta:   itemstack.New(),
		logger: logger.With("scenario", scenario.Name),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	result.State = captureState(h.meta)
	for _, msg := range EvaluateAssertions(h.meta, result, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished", "pass", result.Pass, "steps", len(result.Trace))
	return result, nil
}

// executeStep applies one step and checks it against its expect clause.
func (h *Harness) executeStep(index int, step Step, result *Result) error {
	h.seq++
	ev := TraceEvent{Seq: h.seq, Op: step.Op}

	var stepErr error
	switch step.Op {
	case OpSet:
		ev.Key = step.Key
		changed, err := h.meta.SetString(step.Key, step.Value)
		ev.Changed = &changed
		stepErr = err

	case OpClear:
		h.meta.Clear()

	case OpDeserialize:
		stepErr = h.meta.Deserialize(step.Payload)

	case OpSetToolCapabilities:
		ev.Key = itemstack.ToolCapabilitiesKey
		var caps tool.ToolCapabilities
		if err := json.Unmarshal([]byte(step.Value), &caps); err != nil {
			return fmt.Errorf("decode tool capabilities: %w", err)
		}
		stepErr = h.meta.SetToolCapabilities(caps)

	case OpClearToolCapabilities:
		ev.Key = itemstack.ToolCapabilitiesKey
		h.meta.ClearToolCapabilities()

	case OpSetWearBar:
		ev.Key = itemstack.WearBarKey
		params, ok, err := tool.ParseWearBarParams(step.Value)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("wear bar params %q are not usable", step.Value)
		}
		stepErr = h.meta.SetWearBarParams(params)

	case OpClearWearBar:
		ev.Key = itemstack.WearBarKey
		h.meta.ClearWearBarParams()

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	ev.Error = classifyError(stepErr)
	result.AddTrace(ev)
	h.logger.Debug("step executed", "seq", ev.Seq, "op", ev.Op, "key", ev.Key, "error", ev.Error)

	if msg := checkExpect(index, step, ev); msg != "" {
		result.AddError(msg)
	}
	return nil
}

// classifyError maps a step error to its failure class.
func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, itemstack.ErrMetadataParse):
		return ErrorClassParse
	case errors.Is(err, wire.ErrUnterminated), errors.Is(err, wire.ErrBadEscape):
		return ErrorClassPayload
	default:
		return err.Error()
	}
}

// checkExpect compares a trace event with the step's expect clause and
// returns a failure message, or "" when they agree.
func checkExpect(index int, step Step, ev TraceEvent) string {
	var want ExpectClause
	if step.Expect != nil {
		want = *step.Expect
	}

	if ev.Error != want.Error {
		return (&AssertionError{
			Type:     fmt.Sprintf("steps[%d] %s error", index, step.Op),
			Expected: describeClass(want.Error),
			Actual:   describeClass(ev.Error),
		}).Error()
	}
	if want.Changed != nil && ev.Changed != nil && *want.Changed != *ev.Changed {
		return (&AssertionError{
			Type:     fmt.Sprintf("steps[%d] %s changed", index, step.Op),
			Expected: fmt.Sprintf("%t", *want.Changed),
			Actual:   fmt.Sprintf("%t", *ev.Changed),
		}).Error()
	}
	return ""
}

func describeClass(class string) string {
	if class == "" {
		return "no error"
	}
	return class
}
