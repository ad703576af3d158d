// Package nlsfile implements reading and writing of NLS JSON resource
// bundles — the files VS Code-derived editors (Cursor included) use for
// user-facing UI strings.
//
// The expected file format is a JSON object, flat or nested:
//
//	{
//	    "menu.file": "File",
//	    "editor": {
//	        "saveLabel": "Save",
//	        "internal.id": "x1"
//	    }
//	}
//
// Object key order is preserved on round-trip; string leaves are addressed
// by key path (e.g. "menu.file", "editor.saveLabel", "items[2].label") so
// replacements target a tree position, never a raw text match.
package nlsfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind is the node type discriminator.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
)

// Node is one parsed JSON value. Exactly one of the value fields is
// meaningful, selected by Kind. Object members keep source order.
type Node struct {
	Kind Kind

	// Object members (Kind == KindObject), in source order.
	Keys     []string
	Children map[string]*Node

	// Array elements (Kind == KindArray).
	Elems []*Node

	// Scalar values.
	Str  string // KindString
	Num  string // KindNumber, verbatim source literal
	Bool bool   // KindBool
}

// File represents a parsed NLS resource bundle.
type File struct {
	// Path is the file the bundle was read from (empty for Parse).
	Path string
	// Root is the top-level node; always an object for well-formed bundles.
	Root *Node
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses an NLS bundle from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse parses NLS JSON data. The top-level value must be an object.
func Parse(data []byte) (*File, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	root, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if root.Kind != KindObject {
		return nil, fmt.Errorf("expected top-level object")
	}

	// Trailing garbage after the document is a malformed bundle.
	if t, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("unexpected trailing content: %v", t)
	}

	return &File{Root: root}, nil
}

func parseValue(dec *json.Decoder) (*Node, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return parseToken(dec, t)
}

func parseToken(dec *json.Decoder, t json.Token) (*Node, error) {
	switch v := t.(type) {
	case json.Delim:
		switch v {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", v)
	case string:
		return &Node{Kind: KindString, Str: v}, nil
	case json.Number:
		return &Node{Kind: KindNumber, Num: v.String()}, nil
	case bool:
		return &Node{Kind: KindBool, Bool: v}, nil
	case nil:
		return &Node{Kind: KindNull}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", t)
}

func parseObject(dec *json.Decoder) (*Node, error) {
	n := &Node{Kind: KindObject, Children: make(map[string]*Node)}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}
		child, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		if _, dup := n.Children[key]; !dup {
			n.Keys = append(n.Keys, key)
		}
		n.Children[key] = child
	}
	// Consume closing '}'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func parseArray(dec *json.Decoder) (*Node, error) {
	n := &Node{Kind: KindArray}
	for dec.More() {
		child, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		n.Elems = append(n.Elems, child)
	}
	// Consume closing ']'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Key paths
// ---------------------------------------------------------------------------

// joinPath appends a key segment to a dot-joined path.
func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Walk visits every string leaf in document order, passing its key path.
// Array elements contribute "[i]" segments: "items[2].label".
func (f *File) Walk(fn func(path, value string)) {
	walkNode(f.Root, "", fn)
}

func walkNode(n *Node, path string, fn func(path, value string)) {
	switch n.Kind {
	case KindObject:
		for _, k := range n.Keys {
			walkNode(n.Children[k], joinPath(path, k), fn)
		}
	case KindArray:
		for i, e := range n.Elems {
			walkNode(e, fmt.Sprintf("%s[%d]", path, i), fn)
		}
	case KindString:
		fn(path, n.Str)
	}
}

// StringAt returns the string leaf at the given key path.
func (f *File) StringAt(path string) (string, bool) {
	n := f.nodeAt(path)
	if n == nil || n.Kind != KindString {
		return "", false
	}
	return n.Str, true
}

// SetString replaces the string leaf at the given key path.
// Returns false if the path does not resolve to a string leaf.
func (f *File) SetString(path, value string) bool {
	n := f.nodeAt(path)
	if n == nil || n.Kind != KindString {
		return false
	}
	n.Str = value
	return true
}

// nodeAt resolves a dot-joined key path with optional [i] array segments.
// Object keys may themselves contain dots (flat NLS bundles), so lookup
// prefers the longest literal key match at each object level.
func (f *File) nodeAt(path string) *Node {
	return resolve(f.Root, path)
}

func resolve(n *Node, path string) *Node {
	if path == "" {
		return n
	}
	switch n.Kind {
	case KindObject:
		// Exact member match first — flat bundles use dotted keys verbatim.
		if child, ok := n.Children[path]; ok {
			return child
		}
		// Longest prefix ending at a '.' or '[' boundary.
		for i := len(path) - 1; i > 0; i-- {
			if path[i] != '.' && path[i] != '[' {
				continue
			}
			if child, ok := n.Children[path[:i]]; ok {
				rest := path[i:]
				if rest[0] == '.' {
					rest = rest[1:]
				}
				if sub := resolve(child, rest); sub != nil {
					return sub
				}
			}
		}
		return nil
	case KindArray:
		if len(path) < 3 || path[0] != '[' {
			return nil
		}
		end := strings.IndexByte(path, ']')
		if end < 0 {
			return nil
		}
		idx, err := strconv.Atoi(path[1:end])
		if err != nil || idx < 0 || idx >= len(n.Elems) {
			return nil
		}
		rest := path[end+1:]
		rest = strings.TrimPrefix(rest, ".")
		return resolve(n.Elems[idx], rest)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

// Marshal renders the bundle back to JSON, preserving member order,
// with 2-space indentation and a trailing newline.
func (f *File) Marshal() []byte {
	var b strings.Builder
	renderNode(&b, f.Root, 0)
	b.WriteByte('\n')
	return []byte(b.String())
}

func renderNode(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	child := strings.Repeat("  ", depth+1)

	switch n.Kind {
	case KindObject:
		if len(n.Keys) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{\n")
		for i, k := range n.Keys {
			b.WriteString(child)
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			renderNode(b, n.Children[k], depth+1)
			if i < len(n.Keys)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(indent)
		b.WriteByte('}')
	case KindArray:
		if len(n.Elems) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteString("[\n")
		for i, e := range n.Elems {
			b.WriteString(child)
			renderNode(b, e, depth+1)
			if i < len(n.Elems)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(indent)
		b.WriteByte(']')
	case KindString:
		b.WriteString(strconv.Quote(n.Str))
	case KindNumber:
		b.WriteString(n.Num)
	case KindBool:
		b.WriteString(strconv.FormatBool(n.Bool))
	case KindNull:
		b.WriteString("null")
	}
}

// WriteFileAtomic renders the bundle and replaces path atomically:
// the content is written to a temp file in the same directory and
// renamed over the original, so a failed write leaves path untouched.
func (f *File) WriteFileAtomic(path string) error {
	data := f.Marshal()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".nls-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
