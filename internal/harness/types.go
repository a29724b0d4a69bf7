package harness

import (
	"github.com/roach88/itemmeta/internal/itemstack"
	"github.com/roach88/itemmeta/internal/tool"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Op      string `json:"op"`
	Key     string `json:"key,omitempty"`
	Changed *bool  `json:"changed,omitempty"`
	Error   string `json:"error,omitempty"`
}

// State is the final state of the metadata after all steps.
type State struct {
	Entries          map[string]string      `json:"entries"`
	ToolCapabilities *tool.ToolCapabilities `json:"tool_capabilities,omitempty"`
	WearBar          *tool.WearBarParams    `json:"wear_bar,omitempty"`
	Payload          string                 `json:"payload"`
}

// captureState snapshots m.
func captureState(m *itemstack.Metadata) State {
	st := State{
		Entries: make(map[string]string, m.Len()),
		Payload: m.Serialize(),
	}
	for k, v := range m.All() {
		st.Entries[k] = v
	}
	if caps, ok := m.ToolCapabilitiesOverride(); ok {
		st.ToolCapabilities = &caps
	}
	if bar, ok := m.WearBarOverride(); ok {
		st.WearBar = &bar
	}
	return st
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace lists executed steps in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the final metadata state.
	State State `json:"state"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
