// Package pipeline instantiates envstack as the concrete class-hierarchy
// witness: code -> ast -> classbody -> classparents -> classgrandparents,
// over Python source parsed with tree-sitter.
package pipeline

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Ast is the value cached by the ast layer: a parsed tree plus the exact
// source bytes it was parsed from (node.Content needs the original bytes).
type Ast struct {
	Tree   *sitter.Tree
	Source []byte
}

// ClassBody is the value cached by the classbody layer: the
// class_definition subtree for one class, plus the source bytes it was
// carved from.
type ClassBody struct {
	Node   *sitter.Node
	Source []byte
}

// classNameOf returns the classname portion of a "module.classname" key,
// or "" if key names a bare module.
func classNameOf(key string) string {
	i := strings.IndexByte(key, '.')
	if i < 0 {
		return ""
	}
	return key[i+1:]
}

// dedent strips the common leading whitespace shared by every non-blank
// line, so callers can pass indented literal blocks as module source.
func dedent(text string) string {
	lines := strings.Split(text, "\n")

	common := -1
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if common == -1 || indent < common {
			common = indent
		}
	}
	if common <= 0 {
		return text
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= common {
			out[i] = line[common:]
		} else {
			out[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(out, "\n")
}
