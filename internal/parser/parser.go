// Package parser turns a multi-document YAML manifest stream into canonical
// types.Resource values (spec.md §4.1).
package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/crossplane/crossplane-runtime/v2/pkg/errors"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/chartdiff/chartdiff/internal/types"
)

// Parse splits manifest into YAML documents and converts each mapping
// document into a types.Resource. Empty documents and non-mapping documents
// are silently skipped. `kind: List` documents are recursed into their
// `items`. defaultNamespace is used when a document has no
// metadata.namespace.
func Parse(manifest string, defaultNamespace string) ([]types.Resource, error) {
	var resources []types.Resource

	dec := yaml.NewDecoder(strings.NewReader(manifest))

	rawDocs := splitRawDocuments(manifest)
	docIndex := 0

	for {
		var node yaml.Node

		err := dec.Decode(&node)
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, errors.Wrap(err, "cannot parse manifest YAML")
		}

		raw := ""
		if docIndex < len(rawDocs) {
			raw = rawDocs[docIndex]
		}

		docIndex++

		docResources, err := parseDocument(&node, raw, defaultNamespace)
		if err != nil {
			return nil, err
		}

		resources = append(resources, docResources...)
	}

	return resources, nil
}

// parseDocument handles one top-level YAML document node, recursing into
// `items` for kind: List.
func parseDocument(node *yaml.Node, raw, defaultNamespace string) ([]types.Resource, error) {
	// A document node wraps its real content in Content[0].
	content := node
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil
		}

		content = node.Content[0]
	}

	if content.Kind != yaml.MappingNode {
		return nil, nil
	}

	body, err := nodeToMap(content)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode manifest document")
	}

	if len(body) == 0 {
		return nil, nil
	}

	kind, _ := body["kind"].(string)
	if kind == "List" {
		return parseListItems(body, defaultNamespace)
	}

	res, err := resourceFromBody(body, raw, defaultNamespace)
	if err != nil {
		return nil, err
	}

	return []types.Resource{res}, nil
}

func parseListItems(body map[string]any, defaultNamespace string) ([]types.Resource, error) {
	items, _ := body["items"].([]any)

	var resources []types.Resource

	for _, item := range items {
		itemBody, ok := item.(map[string]any)
		if !ok {
			continue
		}

		raw, err := sigsyaml.Marshal(itemBody)
		if err != nil {
			raw = nil
		}

		res, err := resourceFromBody(itemBody, string(raw), defaultNamespace)
		if err != nil {
			return nil, err
		}

		resources = append(resources, res)
	}

	return resources, nil
}

func resourceFromBody(body map[string]any, raw, defaultNamespace string) (types.Resource, error) {
	apiVersion, _ := body["apiVersion"].(string)
	kind, _ := body["kind"].(string)

	metadata, _ := body["metadata"].(map[string]any)

	name, _ := metadata["name"].(string)
	if name == "" {
		return types.Resource{}, errors.Errorf("resource of kind %q is missing metadata.name", kind)
	}

	namespace, _ := metadata["namespace"].(string)
	if namespace == "" {
		namespace = defaultNamespace
	}

	if raw == "" {
		reserialized, err := sigsyaml.Marshal(body)
		if err == nil {
			raw = string(reserialized)
		}
	}

	return types.Resource{
		APIVersion: apiVersion,
		Kind:       kind,
		Namespace:  namespace,
		Name:       name,
		Body:       body,
		Raw:        raw,
	}, nil
}

// nodeToMap decodes a yaml.Node into a map[string]any / []any / scalar tree,
// going through sigs.k8s.io/yaml so that nested maps come out as
// map[string]any (not map[interface{}]interface{}), matching the tree shape
// the rest of the pipeline (noise stripping, normalization, diffing) expects.
func nodeToMap(node *yaml.Node) (map[string]any, error) {
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

// splitRawDocuments breaks a multi-document YAML string into its per-document
// raw text, on "---" separators, so each parsed Resource can carry its
// original source text. Falls back to re-serialization (done by the caller)
// when a document's raw slice can't be recovered.
func splitRawDocuments(manifest string) []string {
	lines := strings.Split(manifest, "\n")

	var (
		docs    []string
		current []string
	)

	for _, line := range lines {
		if strings.TrimSpace(line) == "---" {
			docs = append(docs, strings.Join(current, "\n"))
			current = nil

			continue
		}

		current = append(current, line)
	}

	docs = append(docs, strings.Join(current, "\n"))

	// Drop leading documents that are entirely blank/comment-only; they
	// don't correspond to a decoded node and would throw off the index
	// alignment with the decoder's document stream.
	var filtered []string

	for _, d := range docs {
		if isBlankOrCommentOnly(d) {
			continue
		}

		filtered = append(filtered, d)
	}

	return filtered
}

func isBlankOrCommentOnly(doc string) bool {
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		return false
	}

	return true
}
