package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// CleanJSONBlock strips Markdown code fences around a JSON reply
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the fence line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			first := strings.TrimSpace(text[:idx])
			if len(first) < 20 && !strings.ContainsAny(first, " {") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	return strings.TrimSpace(text)
}

// DecodeObject parses a model reply as a single JSON object and, when schema
// is non-empty, validates it. Every failure is a *ParseError.
func DecodeObject(shape, text, schema string) (map[string]any, error) {
	cleaned := CleanJSONBlock(text)
	if cleaned == "" {
		return nil, &ParseError{Shape: shape, Cause: fmt.Errorf("empty response")}
	}

	// Tolerate prose around the object
	if !strings.HasPrefix(cleaned, "{") {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, &ParseError{Shape: shape, Cause: fmt.Errorf("no JSON object in response")}
		}
		cleaned = cleaned[start : end+1]
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, &ParseError{Shape: shape, Cause: err}
	}
	if obj == nil {
		return nil, &ParseError{Shape: shape, Cause: fmt.Errorf("null object")}
	}

	if schema != "" {
		if err := validateObject(schema, obj); err != nil {
			return nil, &ParseError{Shape: shape, Cause: err}
		}
	}

	return obj, nil
}

func validateObject(schema string, obj map[string]any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewGoLoader(obj))
	if err != nil {
		return fmt.Errorf("schema load: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return fmt.Errorf("schema violation: %s", strings.Join(msgs, "; "))
}
