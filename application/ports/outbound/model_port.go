package outbound

import "context"

type SchemaType string

const (
	ObjectSchemaType  SchemaType = "OBJECT"
	ArraySchemaType   SchemaType = "ARRAY"
	StringSchemaType  SchemaType = "STRING"
	IntegerSchemaType SchemaType = "INTEGER"
)

// Schema is the structured output contract sent with a model request.
type Schema struct {
	Type             SchemaType         `json:"type"`
	Description      string             `json:"description,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	Required         []string           `json:"required,omitempty"`
}

// InlinePart is an auxiliary binary input, Data is base64.
type InlinePart struct {
	MimeType string
	Data     string
}

type ModelRequest struct {
	Op                string
	APIKey            string
	Model             string
	SystemInstruction string
	Prompt            string
	Parts             []InlinePart
	Schema            *Schema
	Temperature       float64
}

// ModelPort returns the raw text of the first candidate. With a schema set the
// text is JSON.
type ModelPort interface {
	Invoke(ctx context.Context, req ModelRequest) ([]byte, error)
}
