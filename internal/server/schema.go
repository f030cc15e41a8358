package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidEnvelope is returned for inbound messages that do not match the
// envelope schema.
var ErrInvalidEnvelope = errors.New("invalid message")

// envelopeSchema checks the {"type", "data"} shape and that type names a
// message clients may send. Payload fields are checked when decoding.
type envelopeSchema struct {
	schema *gojsonschema.Schema
}

func newEnvelopeSchema(kinds []string) (*envelopeSchema, error) {
	def := map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"required":             []string{"type"},
		"additionalProperties": false,
		"properties": map[string]any{
			"type": map[string]any{"type": "string", "enum": kinds},
			"data": map[string]any{"type": []string{"object", "null"}},
		},
	}
	raw, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("encoding envelope schema: %w", err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compiling envelope schema: %w", err)
	}
	return &envelopeSchema{schema: schema}, nil
}

func (e *envelopeSchema) validate(data []byte) error {
	result, err := e.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		msgs = append(msgs, re.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidEnvelope, strings.Join(msgs, "; "))
}
