package environment

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// loadYAML picks the environment called name from a document of the form
//
//	development:
//	  baseURL: /
//	  locationType: auto
//	production:
//	  ...
func loadYAML(data []byte, filename, name string) (*Config, error) {
	var doc yaml.Node
	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse file %s", filename)
	}

	root := &doc
	if root.Kind == 0 || root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, eris.Wrapf(ErrEnvironmentNotDefined, "%s is empty, looking for %s", filename, name)
		}
		root = root.Content[0]
	}

	if root.Kind != yaml.MappingNode {
		return nil, eris.Wrapf(ErrNotAMapping, "top level of %s", filename)
	}

	for idx := 0; idx+1 < len(root.Content); idx += 2 {
		if root.Content[idx].Value != name {
			continue
		}

		value, err := yamlToInterface(root.Content[idx+1], map[*yaml.Node]bool{})
		if err != nil {
			return nil, eris.Wrapf(err, "failed to read environment %s from %s", name, filename)
		}

		cfg, ok := value.(*Config)
		if !ok {
			return nil, eris.Wrapf(ErrNotAMapping, "environment %s in %s", name, filename)
		}
		return cfg, nil
	}

	return nil, eris.Wrapf(ErrEnvironmentNotDefined, "%s not found in %s", name, filename)
}

// yamlToInterface converts a YAML node into the representation used by Config.
// seen holds the collections currently being converted and is used to detect cycles.
func yamlToInterface(node *yaml.Node, seen map[*yaml.Node]bool) (interface{}, error) {
	switch node.Kind {
	case yaml.MappingNode:
		if seen[node] {
			return unsupportedValue{kind: "cyclic"}, nil
		}
		seen[node] = true
		defer delete(seen, node)

		cfg := New()
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			keyNode := node.Content[idx]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, eris.Errorf("line %d: only scalar keys are supported", keyNode.Line)
			}

			if isMergeKey(keyNode) {
				err := mergeYAML(cfg, node.Content[idx+1], seen)
				if err != nil {
					return nil, err
				}
				continue
			}

			value, err := yamlToInterface(node.Content[idx+1], seen)
			if err != nil {
				return nil, err
			}
			cfg.Set(keyNode.Value, value)
		}
		return cfg, nil
	case yaml.SequenceNode:
		if seen[node] {
			return unsupportedValue{kind: "cyclic"}, nil
		}
		seen[node] = true
		defer delete(seen, node)

		items := make([]interface{}, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := yamlToInterface(child, seen)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil
	case yaml.AliasNode:
		return yamlToInterface(node.Alias, seen)
	case yaml.ScalarNode:
		var value interface{}
		err := node.Decode(&value)
		if err != nil {
			return nil, eris.Wrapf(err, "line %d: invalid value", node.Line)
		}
		return value, nil
	}

	return nil, eris.Errorf("line %d: unexpected YAML node kind %v", node.Line, node.Kind)
}

func isMergeKey(node *yaml.Node) bool {
	return node.Value == "<<" && (node.Tag == "" || node.Tag == "!" || node.Tag == "!!merge")
}

// mergeYAML applies a "<<" entry to cfg. The value is a mapping or a sequence of mappings.
// Keys already present win: explicit keys override merged ones and earlier mappings in a
// sequence override later ones. Explicit keys that follow the merge entry overwrite it in place.
func mergeYAML(cfg *Config, valueNode *yaml.Node, seen map[*yaml.Node]bool) error {
	value, err := yamlToInterface(valueNode, seen)
	if err != nil {
		return err
	}

	sources := []interface{}{value}
	if items, ok := value.([]interface{}); ok {
		sources = items
	}

	for _, source := range sources {
		mapping, ok := source.(*Config)
		if !ok {
			return eris.Errorf("line %d: merge value must be a mapping or a list of mappings", valueNode.Line)
		}

		for _, key := range mapping.Keys() {
			if _, exists := cfg.Get(key); exists {
				continue
			}

			item, _ := mapping.Get(key)
			cfg.Set(key, item)
		}
	}

	return nil
}

// loadJSON reads the same layout as loadYAML but keeps the key order of the JSON document.
func loadJSON(data []byte, filename, name string) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeJSONValue(dec)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse file %s", filename)
	}

	root, ok := value.(*Config)
	if !ok {
		return nil, eris.Wrapf(ErrNotAMapping, "top level of %s", filename)
	}

	env, ok := root.Get(name)
	if !ok {
		return nil, eris.Wrapf(ErrEnvironmentNotDefined, "%s not found in %s", name, filename)
	}

	cfg, ok := env.(*Config)
	if !ok {
		return nil, eris.Wrapf(ErrNotAMapping, "environment %s in %s", name, filename)
	}
	return cfg, nil
}

func decodeJSONValue(dec *json.Decoder) (interface{}, error) {
	token, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, eris.Wrap(io.ErrUnexpectedEOF, "empty document")
		}
		return nil, err
	}

	delim, ok := token.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return token, nil
	}

	switch delim {
	case '{':
		cfg := New()
		for dec.More() {
			keyToken, err := dec.Token()
			if err != nil {
				return nil, err
			}

			key, ok := keyToken.(string)
			if !ok {
				return nil, eris.Errorf("unexpected object key %v", keyToken)
			}

			value, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			cfg.Set(key, value)
		}

		_, err = dec.Token()
		return cfg, err
	case '[':
		items := make([]interface{}, 0)
		for dec.More() {
			value, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}

		_, err = dec.Token()
		return items, err
	}

	return nil, eris.Errorf("unexpected delimiter %v", delim)
}
