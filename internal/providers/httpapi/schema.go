package httpapi

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var recordArray = map[string]any{
	"type":  []any{"array", "null"},
	"items": map[string]any{"type": "object"},
}

var optionalString = map[string]any{"type": []any{"string", "null"}}

// querySchema describes a 200 response from POST /query.
var querySchema = mustSchema(map[string]any{
	"type":     "object",
	"required": []any{"table"},
	"properties": map[string]any{
		"table": recordArray,
		"chart": recordArray,
		"sql":   optionalString,
	},
})

// historySchema describes a 200 response from GET /history.
var historySchema = mustSchema(map[string]any{
	"type": "array",
	"items": map[string]any{
		"type":     "object",
		"required": []any{"prompt_text"},
		"properties": map[string]any{
			"prompt_text": map[string]any{"type": "string"},
			"sql_text":    optionalString,
			"result":      recordArray,
			"created_at":  optionalString,
		},
	},
})

func mustSchema(def map[string]any) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def))
	if err != nil {
		panic(fmt.Sprintf("httpapi: invalid response schema: %v", err))
	}
	return schema
}

// validate checks body against schema and folds every violation into one error.
func validate(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("response failed validation: %s", strings.Join(details, "; "))
}
