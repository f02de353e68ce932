package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// replySchema constrains classifier replies: the format must be one of ours
// and the confidence must sit in [0, 1].
var replySchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"format": map[string]any{
			"type": "string",
			"enum": []any{"pcda", "pcda_bilingual", "military", "psu", "corporate", "unknown"},
		},
		"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		"reasoning":  map[string]any{"type": "string"},
	},
	"required": []any{"format", "confidence"},
}

var compiledReplySchema = mustCompile(replySchema)

func mustCompile(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Errorf("marshal schema: %w", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("reply.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Errorf("add schema: %w", err))
	}
	schema, err := compiler.Compile("reply.json")
	if err != nil {
		panic(fmt.Errorf("compile schema: %w", err))
	}
	return schema
}

func validateReply(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal reply: %w", err)
	}
	if err := compiledReplySchema.Validate(v); err != nil {
		return fmt.Errorf("reply does not match schema: %w", err)
	}
	return nil
}
