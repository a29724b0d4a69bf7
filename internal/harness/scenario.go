package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines an item metadata scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps are applied in order to a fresh Metadata.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single mutation.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Key is the entry key (set).
	Key string `yaml:"key,omitempty"`

	// Value is the entry value (set) or JSON document (set_tool_capabilities,
	// set_wear_bar).
	Value string `yaml:"value,omitempty"`

	// Payload is the serialized form to load (deserialize).
	Payload string `yaml:"payload,omitempty"`

	// Expect describes the expected outcome. Nil means "succeeds".
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Changed is the expected change flag of a set step.
	Changed *bool `yaml:"changed,omitempty"`

	// Error is the expected failure class, or empty for success.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Key is the entry key (entry, no_entry).
	Key string `yaml:"key,omitempty"`

	// Value is the expected value (entry, serialized) or view JSON
	// (cache_present, optional).
	Value string `yaml:"value,omitempty"`

	// Cache names a view: "tool_capabilities" or "wear_bar".
	Cache string `yaml:"cache,omitempty"`

	// Count is the expected number of entries (count).
	Count int `yaml:"count,omitempty"`
}

// Operation constants.
const (
	OpSet                   = "set"
	OpClear                 = "clear"
	OpDeserialize           = "deserialize"
	OpSetToolCapabilities   = "set_tool_capabilities"
	OpClearToolCapabilities = "clear_tool_capabilities"
	OpSetWearBar            = "set_wear_bar"
	OpClearWearBar          = "clear_wear_bar"
)

// Assertion type constants.
const (
	AssertEntry        = "entry"
	AssertNoEntry      = "no_entry"
	AssertCount        = "count"
	AssertCachePresent = "cache_present"
	AssertCacheAbsent  = "cache_absent"
	AssertSerialized   = "serialized"
)

// View names used by cache assertions.
const (
	CacheToolCapabilities = "tool_capabilities"
	CacheWearBar          = "wear_bar"
)

// Failure classes used by expect.error.
const (
	ErrorClassParse   = "parse"
	ErrorClassPayload = "payload"
)

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML. Unknown fields are rejected so that
// typos surface as errors.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, st *Step) error {
	switch st.Op {
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	case OpSet, OpDeserialize, OpClear, OpClearToolCapabilities, OpClearWearBar:
	case OpSetToolCapabilities, OpSetWearBar:
		if st.Value == "" {
			return fmt.Errorf("steps[%d]: value is required for %s", index, st.Op)
		}
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}

	if st.Expect == nil {
		return nil
	}
	if st.Expect.Changed != nil && st.Op != OpSet {
		return fmt.Errorf("steps[%d].expect: changed only applies to set", index)
	}
	switch st.Expect.Error {
	case "", ErrorClassParse, ErrorClassPayload:
	default:
		return fmt.Errorf("steps[%d].expect: unknown error class %q", index, st.Expect.Error)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertEntry, AssertNoEntry, AssertSerialized:
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertCachePresent, AssertCacheAbsent:
		if a.Cache != CacheToolCapabilities && a.Cache != CacheWearBar {
			return fmt.Errorf("assertions[%d]: cache must be %q or %q for %s",
				index, CacheToolCapabilities, CacheWearBar, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
