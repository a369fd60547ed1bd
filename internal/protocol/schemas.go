package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Inbound messages are schema-checked before they reach the session loop, so
// the loop only ever sees well-formed actions.

const helloSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type", "protocol_version", "player_name"],
  "properties": {
    "type": {"const": "HELLO"},
    "protocol_version": {"type": "string"},
    "player_name": {"type": "string", "minLength": 1, "maxLength": 64},
    "capabilities": {
      "type": "object",
      "properties": {
        "delta_instances": {"type": "boolean"},
        "max_queue": {"type": "integer", "minimum": 0, "maximum": 1024}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

const actSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type", "protocol_version", "action"],
  "properties": {
    "type": {"const": "ACT"},
    "protocol_version": {"type": "string"},
    "action_id": {"type": "string", "maxLength": 128},
    "action": {"enum": ["MOVE", "BREAK", "PLACE"]},
    "move": {
      "type": "object",
      "properties": {
        "forward": {"type": "boolean"},
        "back": {"type": "boolean"},
        "left": {"type": "boolean"},
        "right": {"type": "boolean"},
        "up": {"type": "boolean"},
        "down": {"type": "boolean"},
        "yaw": {"type": "number"},
        "pitch": {"type": "number"}
      },
      "additionalProperties": false
    },
    "ray": {
      "type": "object",
      "required": ["origin", "dir"],
      "properties": {
        "origin": {"type": "array", "items": {"type": "number"}, "minItems": 3, "maxItems": 3},
        "dir": {"type": "array", "items": {"type": "number"}, "minItems": 3, "maxItems": 3}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

var (
	helloSchema = jsonschema.MustCompileString("hello.schema.json", helloSchemaJSON)
	actSchema   = jsonschema.MustCompileString("act.schema.json", actSchemaJSON)
)

func validateAgainst(s *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return s.Validate(v)
}

func ValidateHello(raw []byte) error { return validateAgainst(helloSchema, raw) }
func ValidateAct(raw []byte) error   { return validateAgainst(actSchema, raw) }
