// Package tools — JSON Schema validation of tool_use input.
//
// The model emits tool_use blocks whose Input is assembled from streamed
// partial JSON; ValidateInput checks that input against the tool's declared
// schema before the caller executes anything with it.
package tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/bitop-dev/claude/pkg/claude"
)

// ValidateInput validates the input of a tool_use block against the
// matching tool's InputSchema.
//
// If the schema cannot be compiled the input is accepted unchanged (fail
// open), so a malformed schema never blocks an otherwise usable call. A
// schema violation returns a descriptive error.
func ValidateInput(t claude.Tool, input json.RawMessage) error {
	if len(t.InputSchema) == 0 {
		return nil
	}

	schema, err := compileSchema(t.InputSchema)
	if err != nil {
		// Unparseable schema — fail open so callers don't break on bad schemas.
		return nil
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(input))
	if err != nil {
		return fmt.Errorf("tool %q input is not valid JSON: %w", t.Name, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("tool %q input validation failed: %w", t.Name, err)
	}
	return nil
}

// ValidateUse looks up the tool named by use among defs and validates the
// use's input. An unknown tool name is an error: the model invoked
// something that was never offered.
func ValidateUse(defs []claude.Tool, use claude.ToolUseContent) error {
	for _, t := range defs {
		if t.Name == use.Name {
			return ValidateInput(t, use.Input)
		}
	}
	return fmt.Errorf("tool %q is not defined", use.Name)
}

// compileSchema unmarshals the schema bytes and compiles them.
// A fresh compiler is used each time to avoid resource-collision errors.
func compileSchema(schemaBytes []byte) (*jsonschema.Schema, error) {
	// jsonschema/v6 requires an already-unmarshaled value for AddResource.
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	const url = "mem://tool/schema"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return c.Compile(url)
}
