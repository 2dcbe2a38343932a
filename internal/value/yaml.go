package value

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a YAML node into the typed Value representation.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := fromNode(node)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func fromNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Value{}, nil
		}
		return fromNode(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return Value{}, fmt.Errorf("line %d: dangling alias", node.Line)
		}
		return fromNode(node.Alias)
	case yaml.MappingNode:
		fields := make(map[string]Value, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: record keys must be scalars", keyNode.Line)
			}
			child, err := fromNode(node.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			fields[keyNode.Value] = child
		}
		return NewObject(fields), nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, itemNode := range node.Content {
			child, err := fromNode(itemNode)
			if err != nil {
				return Value{}, err
			}
			items = append(items, child)
		}
		return NewArray(items...), nil
	case yaml.ScalarNode:
		return fromScalar(node)
	default:
		return Value{}, fmt.Errorf("line %d: unsupported yaml node", node.Line)
	}
}

func fromScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Value{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}
		return FromBool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return Value{}, err
		}
		return FromInt(n), nil
	case "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			var decoded float64
			if decodeErr := node.Decode(&decoded); decodeErr != nil {
				return Value{}, decodeErr
			}
			n = decoded
		}
		return FromFloat(n), nil
	default:
		return FromString(node.Value), nil
	}
}
