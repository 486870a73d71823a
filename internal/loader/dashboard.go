package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/valter-silva-au/promcheck/pkg/models"
)

// Node is a tagged variant over a decoded dashboard document: exactly one
// of Object, Array, or Scalar is meaningful, selected by Kind.
type Node struct {
	Kind   NodeKind
	Object map[string]*Node
	Array  []*Node
	Scalar any
}

// NodeKind discriminates the Node variant.
type NodeKind int

const (
	KindScalar NodeKind = iota
	KindObject
	KindArray
)

// PathPredicate decides whether a query found at the given document path
// should be excluded from extraction. The path holds object keys and
// bracketed array indices, innermost last.
type PathPredicate func(path []string) bool

// ExcludeSegment returns a predicate rejecting any path that contains the
// given literal segment. The default dashboard predicate excludes
// "targets" so template-variable query definitions are not double-counted.
func ExcludeSegment(segment string) PathPredicate {
	return func(path []string) bool {
		for _, p := range path {
			if p == segment {
				return true
			}
		}
		return false
	}
}

// ListDashboardFiles returns the sorted dashboard JSON file paths in dir.
func ListDashboardFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dashboards directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// LoadDashboard parses one dashboard file and extracts every query
// expression reachable from the root, except those the exclude predicate
// rejects. An unparsable document yields a single file-scoped issue and no
// queries.
func LoadDashboard(path string, exclude PathPredicate) models.LoadedDashboard {
	file := filepath.Base(path)
	result := models.LoadedDashboard{File: file}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Issues = append(result.Issues,
			models.Errorf(models.CheckInput, file, "", "File not found"))
		return result
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		result.Issues = append(result.Issues,
			models.Errorf(models.CheckInput, file, "", "Invalid JSON - %v", err))
		return result
	}

	root := buildNode(raw)
	walkQueries(root, nil, exclude, func(path []string, expr string) {
		result.Queries = append(result.Queries, models.Expression{
			Text: expr,
			File: file,
			Path: joinPath(path),
		})
	})

	return result
}

// buildNode converts a decoded JSON value into the tagged tree.
func buildNode(v any) *Node {
	switch val := v.(type) {
	case map[string]any:
		obj := make(map[string]*Node, len(val))
		for k, child := range val {
			obj[k] = buildNode(child)
		}
		return &Node{Kind: KindObject, Object: obj}
	case []any:
		arr := make([]*Node, len(val))
		for i, child := range val {
			arr[i] = buildNode(child)
		}
		return &Node{Kind: KindArray, Array: arr}
	default:
		return &Node{Kind: KindScalar, Scalar: val}
	}
}

// walkQueries visits every node depth-first. An object carrying an expr
// key emits a query unless the predicate excludes the object's path.
// Object keys are visited in sorted order so extraction order, and with it
// the report, is deterministic.
func walkQueries(node *Node, path []string, exclude PathPredicate, emit func(path []string, expr string)) {
	switch node.Kind {
	case KindObject:
		if exprNode, ok := node.Object["expr"]; ok && (exclude == nil || !exclude(path)) {
			if s, ok := exprNode.Scalar.(string); ok && exprNode.Kind == KindScalar {
				emit(path, s)
			}
		}
		for _, key := range sortedKeys(node.Object) {
			walkQueries(node.Object[key], append(path, key), exclude, emit)
		}
	case KindArray:
		for i, child := range node.Array {
			walkQueries(child, append(path, fmt.Sprintf("[%d]", i)), exclude, emit)
		}
	}
}

func sortedKeys(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// joinPath renders a document path as a dotted string with inline array
// indices, e.g. "panels[2].queries[0]".
func joinPath(path []string) string {
	out := ""
	for _, p := range path {
		if out == "" || (len(p) > 0 && p[0] == '[') {
			out += p
			continue
		}
		out += "." + p
	}
	return out
}
