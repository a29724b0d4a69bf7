// Package harness runs item metadata scenarios described in YAML.
//
// A scenario drives one itemstack.Metadata through a sequence of
// mutations and then checks the resulting entries, derived views and
// serialized payload.
//
// # Scenario Format
//
//	name: tool_caps_sync
//	description: "Setting tool_capabilities derives the override"
//	steps:
//	  - op: set
//	    key: tool_capabilities
//	    value: '{"max_drop_level":3}'
//	    expect: { changed: true }
//	  - op: deserialize
//	    payload: "plain text"
//	assertions:
//	  - type: entry
//	    key: ""
//	    value: "plain text"
//	  - type: cache_absent
//	    cache: tool_capabilities
//
// YAML double-quoted strings accept \x01-style escapes, which is how
// scenarios spell framing bytes.
//
// # Operations
//
//   - set: SetString(key, value)
//   - clear: Clear()
//   - deserialize: Deserialize(payload)
//   - set_tool_capabilities / set_wear_bar: parse value as JSON and call the
//     typed setter
//   - clear_tool_capabilities / clear_wear_bar: call the typed clearer
//
// A step without an expect clause must not fail. expect.error names the
// failure class: "parse" for reserved-key parse errors, "payload" for
// broken quoting.
//
// # Assertion Types
//
//   - entry: key exists with value
//   - no_entry: key does not exist
//   - count: number of entries
//   - cache_present: view exists; when value is set, its JSON must match
//   - cache_absent: view does not exist
//   - serialized: Serialize() output equals value
//
// # Golden Snapshots
//
// RunWithGolden compares the step trace and final state against
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
