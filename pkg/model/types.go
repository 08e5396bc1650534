package model

import (
	"fmt"
)

// Node is a raw hierarchical item as delivered by the catalog (table group,
// table, column, ...). It carries no view state; see tree.Node for that.
type Node struct {
	ID          string      `json:"id" yaml:"id"`
	Label       string      `json:"label" yaml:"label"`
	Icon        string      `json:"icon,omitempty" yaml:"icon,omitempty"`
	Classes     []string    `json:"classes,omitempty" yaml:"classes,omitempty"`
	GeneralType GeneralType `json:"general_type,omitempty" yaml:"general_type,omitempty"`
	Children    []Node      `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsInternal returns true if the node has at least one child.
func (n Node) IsInternal() bool {
	return len(n.Children) > 0
}

// Validate checks if the node data is logically valid
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node ID cannot be empty")
	}
	if n.GeneralType != "" && !n.GeneralType.IsValid() {
		return fmt.Errorf("node %s: invalid general type: %s", n.ID, n.GeneralType)
	}
	return nil
}

// ValidateForest validates every node and checks that IDs are unique across
// the whole forest.
func ValidateForest(nodes []Node) error {
	seen := make(map[string]bool)
	var walk func(list []Node) error
	walk = func(list []Node) error {
		for i := range list {
			node := &list[i]
			if err := node.Validate(); err != nil {
				return err
			}
			if seen[node.ID] {
				return fmt.Errorf("duplicate node ID %q", node.ID)
			}
			seen[node.ID] = true
			if err := walk(node.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(nodes)
}

// CountNodes returns the total number of nodes in the forest.
func CountNodes(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += 1 + CountNodes(n.Children)
	}
	return total
}

// SelectedNode is one entry of a minimal multi-selection covering.
//
// All is nil for a selected leaf. When All is true every leaf beneath ID is
// selected; when false, Children lists only the selected or partially
// selected descendants.
type SelectedNode struct {
	ID       string         `json:"id"`
	All      *bool          `json:"all,omitempty"`
	Children []SelectedNode `json:"children,omitempty"`
}

// IsFullyCovered reports whether the entry stands for its whole subtree.
func (s SelectedNode) IsFullyCovered() bool {
	return s.All == nil || *s.All
}

// LeafIDs returns the ids of the selected leaves beneath the entry, in order.
func (s SelectedNode) LeafIDs() []string {
	if len(s.Children) == 0 {
		return []string{s.ID}
	}
	var ids []string
	for _, child := range s.Children {
		ids = append(ids, child.LeafIDs()...)
	}
	return ids
}

// GeneralType is the closed set of column type variants.
type GeneralType string

const (
	TypeAlpha    GeneralType = "A"
	TypeBoolean  GeneralType = "B"
	TypeDatetime GeneralType = "D"
	TypeNumeric  GeneralType = "N"
	TypeTime     GeneralType = "T"
	TypeUnknown  GeneralType = "X"
)

// IsValid returns true if the general type is a recognized value
func (g GeneralType) IsValid() bool {
	switch g {
	case TypeAlpha, TypeBoolean, TypeDatetime, TypeNumeric, TypeTime, TypeUnknown:
		return true
	}
	return false
}

// DisplayName returns the human readable name of the type.
func (g GeneralType) DisplayName() string {
	switch g {
	case TypeAlpha:
		return "Alpha"
	case TypeBoolean:
		return "Boolean"
	case TypeDatetime:
		return "Datetime"
	case TypeNumeric:
		return "Numeric"
	case TypeTime:
		return "Time"
	default:
		return "Unknown"
	}
}

// Icon returns a short glyph used in front of column labels.
func (g GeneralType) Icon() string {
	switch g {
	case TypeAlpha:
		return "Aa"
	case TypeBoolean:
		return "✓✗"
	case TypeDatetime:
		return "📅"
	case TypeNumeric:
		return "#"
	case TypeTime:
		return "⏱"
	default:
		return "?"
	}
}
