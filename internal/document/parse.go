package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// ErrDocumentMissing indicates no document payload was supplied.
	ErrDocumentMissing = errors.New("document: payload missing")
	// ErrDocumentInvalid indicates the payload does not match the envelope shape.
	ErrDocumentInvalid = errors.New("document: payload invalid")
	// ErrRootMissing indicates a document without the designated root node.
	ErrRootMissing = errors.New("document: root node missing")
)

// envelopeSchema constrains the persisted shape without closing the node
// object; editors attach extra bookkeeping fields (parent, isCanvas, custom)
// that must survive round-trips untouched.
const envelopeSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"properties": {
			"type": {
				"type": "object",
				"properties": {
					"resolvedName": {"type": "string"}
				}
			},
			"displayName": {"type": "string"},
			"props": {"type": "object"},
			"nodes": {
				"type": "array",
				"items": {"type": "string"}
			},
			"linkedNodes": {
				"type": "object",
				"additionalProperties": {"type": "string"}
			}
		}
	}
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func envelope() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("document.json", bytes.NewReader([]byte(envelopeSchema))); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile("document.json")
	})
	return compiledSchema, compileErr
}

// Parse converts a persisted payload into a Document. Accepted inputs are a
// JSON string, raw bytes, a generic map, or an existing Document. The
// payload is validated against the envelope schema before decoding so a
// corrupted column never reaches the renderer.
func Parse(payload any) (Document, error) {
	if payload == nil {
		return nil, ErrDocumentMissing
	}

	var raw map[string]any
	switch typed := payload.(type) {
	case Document:
		if typed == nil {
			return nil, ErrDocumentMissing
		}
		return typed, nil
	case string:
		if strings.TrimSpace(typed) == "" {
			return nil, ErrDocumentMissing
		}
		if err := json.Unmarshal([]byte(typed), &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
		}
	case []byte:
		if len(bytes.TrimSpace(typed)) == 0 {
			return nil, ErrDocumentMissing
		}
		if err := json.Unmarshal(typed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
		}
	case json.RawMessage:
		return Parse([]byte(typed))
	case map[string]any:
		raw = typed
	default:
		return nil, fmt.Errorf("%w: unsupported payload type %T", ErrDocumentInvalid, payload)
	}

	if len(raw) == 0 {
		return nil, ErrDocumentMissing
	}

	schema, err := envelope()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}
	var doc Document
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentInvalid, err)
	}
	return doc, nil
}

// MustJSON serializes a document for persistence. Documents are plain maps
// of JSON-safe values, so failure indicates a programming error.
func MustJSON(doc Document) string {
	encoded, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("document: marshal: %v", err))
	}
	return string(encoded)
}
