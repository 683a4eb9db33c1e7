// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// SchemaFor reflects v into a strict JSON schema for json_schema output.
func SchemaFor(name string, v any) *Schema {
	reflector := &jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(v)
	b, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Errorf("marshaling schema %s: %w", name, err))
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		panic(fmt.Errorf("unmarshaling schema %s: %w", name, err))
	}
	delete(out, "$schema")
	delete(out, "$id")
	return &Schema{Name: name, Schema: out}
}

// DecodeJSON unmarshals a model answer into v. It tolerates a markdown code
// fence around the object and prose before or after it.
func DecodeJSON(text string, v any) error {
	s := stripFence(strings.TrimSpace(text))
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in model response")
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("parsing model response: %w", err)
	}
	return nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
