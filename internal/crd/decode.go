package crd

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

// decodeYAMLStreamAsJSON splits a multi-document YAML stream and converts
// each mapping document to a map[string]any via the same YAML-to-JSON route
// internal/parser uses for manifests (encode the parsed node back to YAML,
// then sigs.k8s.io/yaml.YAMLToJSON + json.Unmarshal). Decoding this way
// rather than straight through gopkg.in/yaml.v3 keeps numeric values JSON
// numbers (float64), matching the schema and primary manifest path so the
// validator's integer/minimum/maximum checks apply uniformly regardless of
// which source fed them.
func decodeYAMLStreamAsJSON(text string) ([]map[string]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader([]byte(text)))

	var out []map[string]any

	for {
		var node yaml.Node

		err := dec.Decode(&node)
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		content := &node
		if node.Kind == yaml.DocumentNode {
			if len(node.Content) == 0 {
				continue
			}

			content = node.Content[0]
		}

		if content.Kind != yaml.MappingNode {
			continue
		}

		m, err := nodeToJSONMap(content)
		if err != nil {
			return nil, err
		}

		if len(m) > 0 {
			out = append(out, m)
		}
	}

	return out, nil
}

func nodeToJSONMap(node *yaml.Node) (map[string]any, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}

	enc.Close()

	jsonBytes, err := sigsyaml.YAMLToJSON(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("cannot convert document to JSON: %w", err)
	}

	var m map[string]any

	if err := sigsyaml.Unmarshal(jsonBytes, &m); err != nil {
		return nil, err
	}

	return m, nil
}
