package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/itemmeta/internal/itemstack"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions runs every assertion against m and returns the
// failure messages. result supplies the trace for the count of executed
// steps in error messages.
func EvaluateAssertions(m *itemstack.Metadata, result *Result, assertions []Assertion) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertEntry:
			err = assertEntry(m, assertion)
		case AssertNoEntry:
			err = assertNoEntry(m, assertion)
		case AssertCount:
			err = assertCount(m, assertion)
		case AssertCachePresent:
			err = assertCachePresent(m, assertion)
		case AssertCacheAbsent:
			err = assertCacheAbsent(m, assertion)
		case AssertSerialized:
			err = assertSerialized(m, assertion)
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion[%d] after %d steps: %s", i, len(result.Trace), err))
		}
	}

	return errs
}

func assertEntry(m *itemstack.Metadata, a Assertion) error {
	got, ok := m.Get(a.Key)
	if !ok {
		return &AssertionError{
			Type:     AssertEntry,
			Expected: fmt.Sprintf("%q = %q", a.Key, a.Value),
			Actual:   fmt.Sprintf("%q not present", a.Key),
		}
	}
	if got != a.Value {
		return &AssertionError{
			Type:     AssertEntry,
			Expected: fmt.Sprintf("%q = %q", a.Key, a.Value),
			Actual:   fmt.Sprintf("%q = %q", a.Key, got),
		}
	}
	return nil
}

func assertNoEntry(m *itemstack.Metadata, a Assertion) error {
	if got, ok := m.Get(a.Key); ok {
		return &AssertionError{
			Type:     AssertNoEntry,
			Expected: fmt.Sprintf("%q not present", a.Key),
			Actual:   fmt.Sprintf("%q = %q", a.Key, got),
		}
	}
	return nil
}

func assertCount(m *itemstack.Metadata, a Assertion) error {
	if m.Len() != a.Count {
		return &AssertionError{
			Type:     AssertCount,
			Expected: fmt.Sprintf("%d entries", a.Count),
			Actual:   fmt.Sprintf("%d entries (%s)", m.Len(), strings.Join(m.Keys(), ", ")),
		}
	}
	return nil
}

// lookupCache returns the named view as JSON, or ok=false when absent.
func lookupCache(m *itemstack.Metadata, name string) (data []byte, ok bool, err error) {
	var view any
	switch name {
	case CacheToolCapabilities:
		caps, present := m.ToolCapabilitiesOverride()
		if !present {
			return nil, false, nil
		}
		view = caps
	case CacheWearBar:
		params, present := m.WearBarOverride()
		if !present {
			return nil, false, nil
		}
		view = params
	default:
		return nil, false, fmt.Errorf("unknown cache %q", name)
	}

	data, err = json.Marshal(view)
	if err != nil {
		return nil, true, fmt.Errorf("encode %s: %w", name, err)
	}
	return data, true, nil
}

func assertCachePresent(m *itemstack.Metadata, a Assertion) error {
	got, ok, err := lookupCache(m, a.Cache)
	if err != nil {
		return err
	}
	if !ok {
		return &AssertionError{
			Type:     AssertCachePresent,
			Expected: fmt.Sprintf("%s present", a.Cache),
			Actual:   "absent",
		}
	}
	if a.Value == "" {
		return nil
	}

	// Compare compacted forms so scenario authors may format freely.
	var want bytes.Buffer
	if err := json.Compact(&want, []byte(a.Value)); err != nil {
		return fmt.Errorf("%s: expected value is not valid JSON: %w", a.Cache, err)
	}
	if !bytes.Equal(want.Bytes(), got) {
		return &AssertionError{
			Type:     AssertCachePresent,
			Expected: want.String(),
			Actual:   string(got),
		}
	}
	return nil
}

func assertCacheAbsent(m *itemstack.Metadata, a Assertion) error {
	got, ok, err := lookupCache(m, a.Cache)
	if err != nil {
		return err
	}
	if ok {
		return &AssertionError{
			Type:     AssertCacheAbsent,
			Expected: fmt.Sprintf("%s absent", a.Cache),
			Actual:   string(got),
		}
	}
	return nil
}

func assertSerialized(m *itemstack.Metadata, a Assertion) error {
	if got := m.Serialize(); got != a.Value {
		return &AssertionError{
			Type:     AssertSerialized,
			Expected: fmt.Sprintf("%q", a.Value),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}
