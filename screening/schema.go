package screening

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// The request schema is built from the question registry: an object whose
// known keys only accept the tokens their question offers. Unknown keys are
// tolerated (and later ignored by the encoder) but must still be strings.

var (
	answerSchemaOnce sync.Once
	answerSchema     *jsonschema.Schema
	answerSchemaErr  error
)

func compiledAnswerSchema() (*jsonschema.Schema, error) {
	answerSchemaOnce.Do(func() {
		props := make(map[string]any, len(questions))
		for _, q := range questions {
			tokens := q.Kind.Tokens()
			enum := make([]any, len(tokens))
			for i, tok := range tokens {
				enum[i] = tok
			}
			props[q.Key] = map[string]any{
				"type": "string",
				"enum": enum,
			}
		}
		definition := map[string]any{
			"type":                 "object",
			"properties":           props,
			"additionalProperties": map[string]any{"type": "string"},
		}

		// The jsonschema library expects a parsed JSON value, not raw bytes.
		defBytes, err := json.Marshal(definition)
		if err != nil {
			answerSchemaErr = fmt.Errorf("marshal answer schema: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			answerSchemaErr = fmt.Errorf("parse answer schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://answers.json", defParsed); err != nil {
			answerSchemaErr = fmt.Errorf("add answer schema resource: %w", err)
			return
		}
		answerSchema, answerSchemaErr = c.Compile("schema://answers.json")
	})
	return answerSchema, answerSchemaErr
}

// ParseAnswers decodes and validates a raw request body into an AnswerSet.
// The body must be a JSON object of string tokens; known question keys must
// carry one of their enumerated tokens.
func ParseAnswers(body []byte) (AnswerSet, error) {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	schema, err := compiledAnswerSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("invalid answer set: %w", err)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("answer set must be a JSON object")
	}
	answers := make(AnswerSet, len(obj))
	for key, value := range obj {
		token, ok := value.(string)
		if !ok {
			// Unreachable after schema validation, kept for totality.
			return nil, fmt.Errorf("answer %q must be a string", key)
		}
		answers[key] = token
	}
	return answers, nil
}
