package testcase

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// caseID accepts either a string or a number and keeps its textual form.
type caseID string

func (id *caseID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*id = caseID(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = caseID(number.String())
	return nil
}

func (id *caseID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: id must be a string or number", node.Line)
	}
	if node.Tag == "!!null" {
		*id = ""
		return nil
	}
	*id = caseID(node.Value)
	return nil
}
