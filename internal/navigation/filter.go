package navigation

import (
	"github.com/spec-kit/freight-console/internal/auth"
	"github.com/spec-kit/freight-console/internal/domain"
)

// Filter prunes the tree to what role may see. Children are filtered first;
// a node with children survives only if one of them does, even when its own
// roles match. Sibling order is kept. The input is not modified.
func Filter(nodes []domain.NavNode, role string) []domain.NavNode {
	out := make([]domain.NavNode, 0, len(nodes))
	for _, node := range nodes {
		if kept, ok := filterNode(node, role); ok {
			out = append(out, kept)
		}
	}
	return out
}

func filterNode(node domain.NavNode, role string) (domain.NavNode, bool) {
	var children []domain.NavNode
	if len(node.Children) > 0 {
		children = Filter(node.Children, role)
		if len(children) == 0 {
			return domain.NavNode{}, false
		}
	}
	if len(node.Roles) > 0 && !auth.HasRole(role, node.Roles) {
		return domain.NavNode{}, false
	}
	node.Roles = append([]string(nil), node.Roles...)
	node.Children = children
	return node, true
}
