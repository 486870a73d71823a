// Package loader parses rule files and dashboard files into a uniform
// in-memory form, tagging every embedded query expression with its
// originating file and a human-readable location path. Loaders are pure:
// the same document always yields the same result, and a malformed file is
// reported as a single file-scoped issue rather than aborting the run.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/valter-silva-au/promcheck/pkg/models"
)

// alertmanagerFiles are reserved routing-configuration filenames excluded
// from rule validation.
var alertmanagerFiles = map[string]struct{}{
	"alertmanager.yml":  {},
	"alertmanager.yaml": {},
}

// ListRuleFiles returns the sorted rule file paths in dir, excluding the
// reserved alertmanager configuration. A missing directory is an error;
// an empty one returns an empty slice for the caller to judge.
func ListRuleFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading rules directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		if _, reserved := alertmanagerFiles[name]; reserved {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// LoadRuleFile parses one rule file. Structural problems with the document
// itself (unparsable YAML, missing groups or rules keys) are file-scoped
// issues; whatever rules could be extracted are still returned so sibling
// groups validate independently.
func LoadRuleFile(path string) models.LoadedRules {
	file := filepath.Base(path)
	result := models.LoadedRules{File: file}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Issues = append(result.Issues,
			models.Errorf(models.CheckInput, file, "", "File not found"))
		return result
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		result.Issues = append(result.Issues,
			models.Errorf(models.CheckInput, file, "", "Invalid YAML - %v", err))
		return result
	}

	root := documentRoot(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		result.Issues = append(result.Issues,
			models.Errorf(models.CheckStructure, file, "", "Missing 'groups' key"))
		return result
	}

	groupsNode := mappingValue(root, "groups")
	if groupsNode == nil {
		result.Issues = append(result.Issues,
			models.Errorf(models.CheckStructure, file, "", "Missing 'groups' key"))
		return result
	}
	if groupsNode.Kind != yaml.SequenceNode {
		result.Issues = append(result.Issues,
			models.Errorf(models.CheckStructure, file, "", "'groups' must be a list"))
		return result
	}

	for _, groupNode := range groupsNode.Content {
		group, issues := loadGroup(groupNode, file)
		result.Issues = append(result.Issues, issues...)
		if group != nil {
			result.Groups = append(result.Groups, *group)
		}
	}

	return result
}

// loadGroup converts one groups[] entry. A group missing its rules key is
// reported and dropped; its siblings are unaffected.
func loadGroup(node *yaml.Node, file string) (*models.RuleGroup, []models.Issue) {
	if node.Kind != yaml.MappingNode {
		return nil, []models.Issue{
			models.Errorf(models.CheckStructure, file, "", "Group entry must be a mapping"),
		}
	}

	group := models.RuleGroup{Name: "unnamed"}
	if nameNode := mappingValue(node, "name"); nameNode != nil {
		group.Name = nameNode.Value
	}
	if intervalNode := mappingValue(node, "interval"); intervalNode != nil {
		group.Interval = intervalNode.Value
	}

	rulesNode := mappingValue(node, "rules")
	if rulesNode == nil || rulesNode.Kind != yaml.SequenceNode {
		return nil, []models.Issue{
			models.Errorf(models.CheckStructure, file, group.Name, "Missing 'rules' key"),
		}
	}

	for _, ruleNode := range rulesNode.Content {
		if ruleNode.Kind != yaml.MappingNode {
			continue
		}
		group.Rules = append(group.Rules, loadRule(ruleNode))
	}

	return &group, nil
}

// loadRule converts one rules[] entry, recording which keys were present.
// Key presence drives structural validation: a missing labels key is a
// different finding than an empty labels mapping.
func loadRule(node *yaml.Node) models.Rule {
	var rule models.Rule

	if n := mappingValue(node, "alert"); n != nil {
		rule.HasAlert = true
		rule.Alert = n.Value
	}
	if n := mappingValue(node, "record"); n != nil {
		rule.HasRecord = true
		rule.Record = n.Value
	}
	if n := mappingValue(node, "expr"); n != nil {
		rule.HasExpr = true
		rule.Expr = n.Value
	}
	if n := mappingValue(node, "for"); n != nil {
		rule.For = n.Value
	}
	if n := mappingValue(node, "labels"); n != nil {
		rule.HasLabels = true
		rule.Labels = decodeStringMap(n)
	}
	if n := mappingValue(node, "annotations"); n != nil {
		rule.HasAnnotations = true
		rule.Annotations = decodeStringMap(n)
	}

	return rule
}

// documentRoot unwraps the document node yaml.v3 places at the top.
func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func decodeStringMap(node *yaml.Node) map[string]string {
	m := make(map[string]string)
	_ = node.Decode(&m)
	return m
}
