package nodes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// PropertyIssue is a single schema violation.
type PropertyIssue struct {
	Location string
	Message  string
}

// PropertiesError lists the schema violations of a property payload.
type PropertiesError struct {
	NodeType NodeTypeName
	Issues   []PropertyIssue
}

func (e *PropertiesError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return fmt.Sprintf("%s %s: %s", ErrPropertiesInvalid.Error(), e.NodeType, strings.Join(parts, "; "))
}

func (e *PropertiesError) Unwrap() error {
	return ErrPropertiesInvalid
}

// ValidateProperties checks props against the node type schema. Node types
// without a schema accept any payload.
func ValidateProperties(nodeType *NodeType, props map[string]any) error {
	if nodeType == nil || len(nodeType.Schema) == 0 {
		return nil
	}
	schema, err := compileSchema(nodeType.Schema)
	if err != nil {
		return fmt.Errorf("nodes: compile schema for %s: %w", nodeType.Name, err)
	}
	payload, err := normalizePayload(props)
	if err != nil {
		return fmt.Errorf("nodes: normalize properties: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &PropertiesError{NodeType: nodeType.Name, Issues: collectIssues(validationErr)}
		}
		return err
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

// normalizePayload round-trips props through JSON so typed Go values
// validate like decoded documents.
func normalizePayload(props map[string]any) (any, error) {
	if props == nil {
		props = map[string]any{}
	}
	encoded, err := json.Marshal(props)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func collectIssues(err *jsonschema.ValidationError) []PropertyIssue {
	var issues []PropertyIssue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			issues = append(issues, PropertyIssue{Location: node.InstanceLocation, Message: node.Message})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
