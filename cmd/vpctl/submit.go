package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"videoprofiles/internal/profiles"
)

// submitSummary counts the outcomes of a submit run.
type submitSummary struct {
	Submitted  int
	Duplicates int
	Failed     int
}

func (s submitSummary) Total() int {
	return s.Submitted + s.Duplicates + s.Failed
}

// submitDocuments submits every document of a YAML stream (JSON documents
// included) and writes one outcome line per document to out. Each document is
// a mapping keyed by column name. Scalars are taken as written, so 007 stays
// "007". A document that cannot be parsed stops the run.
func submitDocuments(ctx context.Context, r io.Reader, submitter *profiles.Submitter, out io.Writer) (submitSummary, error) {
	var summary submitSummary

	decoder := yaml.NewDecoder(r)
	for n := 1; ; n++ {
		var document yaml.Node
		err := decoder.Decode(&document)
		if errors.Is(err, io.EOF) {
			return summary, nil
		}
		if err != nil {
			return summary, fmt.Errorf("document %d: %w", n, err)
		}

		values, err := documentValues(&document)
		if err != nil {
			return summary, fmt.Errorf("document %d: %w", n, err)
		}
		if values == nil {
			continue
		}

		var profile *profiles.Profile
		candidate, err := profiles.DecodeCandidate(values)
		if err == nil {
			profile, err = submitter.Submit(ctx, candidate)
		}

		result := profiles.ResultFor(profile, err)
		switch result.Outcome {
		case profiles.OutcomeSuccess:
			summary.Submitted++
			fmt.Fprintf(out, "document %d: %s (id %d)\n", n, result.Message, result.ProfileID)
		case profiles.OutcomeDuplicateUsername:
			summary.Duplicates++
			fmt.Fprintf(out, "document %d: %s\n", n, result.Message)
		default:
			summary.Failed++
			fmt.Fprintf(out, "document %d: %s (%v)\n", n, result.Message, err)
		}
	}
}

// documentValues reads a document mapping into plain text values. Sequences
// become []string; null values are dropped. An empty document yields nil.
func documentValues(document *yaml.Node) (map[string]any, error) {
	root := document
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	root = resolveAlias(root)
	if isNull(root) {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of column names", root.Line)
	}

	values := make(map[string]any, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], resolveAlias(root.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: column names must be plain text", key.Line)
		}

		switch {
		case isNull(value):
			continue
		case value.Kind == yaml.ScalarNode:
			values[key.Value] = value.Value
		case value.Kind == yaml.SequenceNode:
			items := make([]string, 0, len(value.Content))
			for _, item := range value.Content {
				item = resolveAlias(item)
				if item.Kind != yaml.ScalarNode {
					return nil, fmt.Errorf("line %d: %s may only list plain values", item.Line, key.Value)
				}
				items = append(items, item.Value)
			}
			values[key.Value] = items
		default:
			return nil, fmt.Errorf("line %d: %s must be text or a list", value.Line, key.Value)
		}
	}
	return values, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
