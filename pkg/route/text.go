package route

import (
	"strings"

	"github.com/beevik/etree"
)

// TextContent returns the concatenated character data of el and its
// descendants, in document order.
func TextContent(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var sb strings.Builder
	writeText(&sb, el)
	return sb.String()
}

func writeText(sb *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			writeText(sb, t)
		}
	}
}

// hasElementChildren reports whether el has at least one child element.
func hasElementChildren(el *etree.Element) bool {
	for _, tok := range el.Child {
		if _, ok := tok.(*etree.Element); ok {
			return true
		}
	}
	return false
}

// newChildTag qualifies tag with the parent's namespace prefix, if any.
func newChildTag(parent *etree.Element, tag string) string {
	if parent != nil && parent.Space != "" && !strings.Contains(tag, ":") {
		return parent.Space + ":" + tag
	}
	return tag
}

// isBlank reports whether cd holds only whitespace. Tokens created with
// etree.NewText carry no whitespace flag, so the data is checked directly.
func isBlank(cd *etree.CharData) bool {
	return !cd.IsCData() && strings.TrimSpace(cd.Data) == ""
}

// tokenIndex returns the position of tok among parent's tokens, or -1.
func tokenIndex(parent *etree.Element, tok etree.Token) int {
	for i, t := range parent.Child {
		if t == tok {
			return i
		}
	}
	return -1
}

// removeChild detaches child from parent together with the run of
// whitespace that precedes it, and returns the token index the run started at.
func removeChild(parent, child *etree.Element) int {
	idx := tokenIndex(parent, child)
	if idx < 0 {
		return len(parent.Child)
	}
	parent.RemoveChildAt(idx)
	for idx > 0 {
		cd, ok := parent.Child[idx-1].(*etree.CharData)
		if !ok || !isBlank(cd) {
			break
		}
		parent.RemoveChildAt(idx - 1)
		idx--
	}
	return idx
}

// replaceChild detaches child from parent, leaving the whitespace before it
// in place, and returns the token index it occupied.
func replaceChild(parent, child *etree.Element) int {
	idx := tokenIndex(parent, child)
	if idx < 0 {
		return len(parent.Child)
	}
	parent.RemoveChildAt(idx)
	return idx
}

// childrenByTag returns the direct children of el with the given local name.
func childrenByTag(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
	}
	return out
}

// Indentation returns the whitespace that precedes el on its line, taken
// from the text token before it. Elements that share a line with their
// previous sibling have no indentation.
func Indentation(el *etree.Element) string {
	parent := el.Parent()
	if parent == nil {
		return ""
	}
	idx := tokenIndex(parent, el)
	if idx <= 0 {
		return ""
	}
	cd, ok := parent.Child[idx-1].(*etree.CharData)
	if !ok || !isBlank(cd) {
		return ""
	}
	nl := strings.LastIndexByte(cd.Data, '\n')
	if nl < 0 {
		return ""
	}
	return cd.Data[nl+1:]
}
