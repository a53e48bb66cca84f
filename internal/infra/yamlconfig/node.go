package yamlconfig

import "gopkg.in/yaml.v3"

// documentMapping returns the top-level mapping of a parsed document.
func documentMapping(doc *yaml.Node) *yaml.Node {
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	return n
}

func lookup(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// mergeInto writes the values of src over dst, keeping dst's key order,
// comments and quoting. Keys missing from dst are appended.
func mergeInto(dst, src *yaml.Node) {
	for i := 0; i+1 < len(src.Content); i += 2 {
		key, val := src.Content[i], src.Content[i+1]

		j := lookup(dst, key.Value)
		if j < 0 {
			dst.Content = append(dst.Content, key, val)
			continue
		}

		old := dst.Content[j+1]
		if old.Kind == yaml.MappingNode && val.Kind == yaml.MappingNode && old.Style&yaml.FlowStyle == 0 {
			mergeInto(old, val)
			continue
		}

		switch {
		case val.Kind == yaml.ScalarNode && old.Kind == yaml.ScalarNode:
			if old.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 && val.Tag == "!!str" {
				val.Style = old.Style
			}
		case len(val.Content) == 0:
			// Empty collections read best as {} and [].
			val.Style = yaml.FlowStyle
		}
		val.HeadComment = old.HeadComment
		val.LineComment = old.LineComment
		val.FootComment = old.FootComment
		dst.Content[j+1] = val
	}
}
