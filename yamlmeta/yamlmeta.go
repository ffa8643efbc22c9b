// Package yamlmeta converts YAML metadata, as found in document front
// matter or pandoc --metadata-file inputs, into metadata value trees.
// Mapping key order is preserved, matching the ordered maps used for
// document metadata everywhere else.
package yamlmeta

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/pandoctree/pandoctree"
)

// Decode parses YAML and converts the top-level mapping into document
// metadata. Scalars become MetaString or MetaBool, sequences MetaList,
// mappings MetaMap. An empty input yields empty metadata.
func Decode(ctx *pandoctree.Context, data []byte) (*pandoctree.Meta, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, pandoctree.Issues{pandoctree.Issue{
			Code:    pandoctree.CodeShapeMismatch,
			Message: "invalid YAML input",
			Cause:   err,
		}}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return pandoctree.NewMeta(nil), nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, issuef("", "top-level YAML metadata must be a mapping, got %s", kindName(doc))
	}
	return mappingValue(ctx, doc, "")
}

// value converts one YAML node into a MetaValue node.
func value(ctx *pandoctree.Context, n *yaml.Node, path string) (pandoctree.Value, error) {
	if n.Kind == yaml.AliasNode {
		return value(ctx, n.Alias, path)
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return scalarValue(ctx, n, path)
	case yaml.SequenceNode:
		items := make(pandoctree.List, 0, len(n.Content))
		for i, item := range n.Content {
			v, err := value(ctx, item, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		node, err := ctx.New("MetaList", items)
		if err != nil {
			return nil, err
		}
		return node, nil
	case yaml.MappingNode:
		m, err := mappingValue(ctx, n, path)
		if err != nil {
			return nil, err
		}
		node, err := ctx.New("MetaMap", m.Map())
		if err != nil {
			return nil, err
		}
		return node, nil
	}
	return nil, issuef(path, "unsupported YAML node kind %s", kindName(n))
}

// mappingValue converts a mapping node, keeping key order. Duplicate keys
// keep the first occurrence's position and the last occurrence's value,
// the same resolution an ordered map applies on Set.
func mappingValue(ctx *pandoctree.Context, n *yaml.Node, path string) (*pandoctree.Meta, error) {
	entries := pandoctree.NewMap()
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode := n.Content[i]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, issuef(path, "mapping keys must be scalars, got %s", kindName(keyNode))
		}
		v, err := value(ctx, n.Content[i+1], path+"/"+keyNode.Value)
		if err != nil {
			return nil, err
		}
		entries.Set(keyNode.Value, v)
	}
	return pandoctree.NewMeta(entries), nil
}

func scalarValue(ctx *pandoctree.Context, n *yaml.Node, path string) (pandoctree.Value, error) {
	switch n.Tag {
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, issuef(path, "malformed YAML bool %q", n.Value)
		}
		node, err := ctx.New("MetaBool", b)
		if err != nil {
			return nil, err
		}
		return node, nil
	case "!!null":
		node, err := ctx.New("MetaString", "")
		if err != nil {
			return nil, err
		}
		return node, nil
	default:
		// Numbers, timestamps and plain strings all surface as their
		// textual form; interpretation is the consumer's business.
		node, err := ctx.New("MetaString", n.Value)
		if err != nil {
			return nil, err
		}
		return node, nil
	}
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}

func issuef(path, format string, args ...any) pandoctree.Issues {
	return pandoctree.Issues{pandoctree.Issue{
		Path:    path,
		Code:    pandoctree.CodeShapeMismatch,
		Message: fmt.Sprintf(format, args...),
	}}
}
