package message

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// messageSchema describes the shape every raw message object must have:
// a known type plus the fields that type requires. Template contents are
// deliberately loose so new template kinds pass through.
const messageSchema = `{
	"type": "object",
	"required": ["type"],
	"properties": {
		"type": {
			"enum": ["text", "image", "video", "audio", "location", "sticker", "imagemap", "template"]
		}
	},
	"allOf": [
		{
			"if": {"properties": {"type": {"const": "text"}}},
			"then": {"required": ["text"]}
		},
		{
			"if": {"properties": {"type": {"const": "image"}}},
			"then": {"required": ["originalContentUrl", "previewImageUrl"]}
		},
		{
			"if": {"properties": {"type": {"const": "video"}}},
			"then": {"required": ["originalContentUrl", "previewImageUrl"]}
		},
		{
			"if": {"properties": {"type": {"const": "audio"}}},
			"then": {"required": ["originalContentUrl", "duration"]}
		},
		{
			"if": {"properties": {"type": {"const": "location"}}},
			"then": {"required": ["title", "address", "latitude", "longitude"]}
		},
		{
			"if": {"properties": {"type": {"const": "sticker"}}},
			"then": {"required": ["packageId", "stickerId"]}
		},
		{
			"if": {"properties": {"type": {"const": "template"}}},
			"then": {"required": ["altText", "template"]}
		}
	]
}`

// Validator validates raw message objects against the message schema.
// Compilation happens once on first use and the compiled schema is
// shared by every Builder.
type Validator struct {
	once     sync.Once
	compiled *jsonschema.Schema
	compErr  error
}

var defaultValidator = &Validator{}

// ValidateMessage checks msg against the message schema.
func (v *Validator) ValidateMessage(msg map[string]any) error {
	if msg == nil {
		return fmt.Errorf("message must not be nil")
	}

	v.once.Do(v.compile)
	if v.compErr != nil {
		return fmt.Errorf("compile message schema: %w", v.compErr)
	}

	// Round-trip through JSON so typed values (ints, structs) become the
	// plain forms the validator expects.
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}

	return v.compiled.Validate(doc)
}

func (v *Validator) compile() {
	var doc any
	if err := json.Unmarshal([]byte(messageSchema), &doc); err != nil {
		v.compErr = err
		return
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("linebot://schema/message", doc); err != nil {
		v.compErr = err
		return
	}

	v.compiled, v.compErr = c.Compile("linebot://schema/message")
}
