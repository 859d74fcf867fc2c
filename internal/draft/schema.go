package draft

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

var schema = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	compiler.AssertFormat = true
	if err := compiler.AddResource("property-draft.json", strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("adding draft schema: %v", err))
	}
	return compiler.MustCompile("property-draft.json")
}

// Problem is one validation failure, located by JSON pointer.
type Problem struct {
	Field   string
	Message string
}

// ValidationError lists everything wrong with a draft.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Field + ": " + p.Message
	}
	return "invalid draft: " + strings.Join(msgs, "; ")
}

// Validate checks the draft against the property schema. It returns a
// *ValidationError listing every problem.
func (d *Draft) Validate() error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding draft: %w", err)
	}

	err = schema.Validate(v)
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	out := &ValidationError{}
	var collect func(e *jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				collect(c)
			}
			return
		}
		field := strings.ReplaceAll(strings.TrimPrefix(e.InstanceLocation, "/"), "/", ".")
		if field == "" {
			field = "draft"
		}
		out.Problems = append(out.Problems, Problem{Field: field, Message: e.Message})
	}
	collect(ve)
	return out
}

// Fields returns the set of fields with problems.
func (e *ValidationError) Fields() map[string]bool {
	fields := make(map[string]bool, len(e.Problems))
	for _, p := range e.Problems {
		fields[p.Field] = true
	}
	return fields
}
