package navigation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/freight-console/internal/domain"
)

// Menu is the static sidebar tree.
type Menu struct {
	nodes []domain.NavNode
}

type menuFile struct {
	Menu []domain.NavNode `yaml:"menu"`
}

// LoadMenu reads a YAML menu file.
func LoadMenu(path string) (*Menu, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}
	return ParseMenu(raw)
}

// ParseMenu decodes a YAML menu document.
func ParseMenu(raw []byte) (*Menu, error) {
	var file menuFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	if err := validateNodes(file.Menu); err != nil {
		return nil, err
	}
	return &Menu{nodes: file.Menu}, nil
}

func validateNodes(nodes []domain.NavNode) error {
	for _, n := range nodes {
		if n.Name == "" {
			return fmt.Errorf("menu entry without name (url %q)", n.URL)
		}
		if err := validateNodes(n.Children); err != nil {
			return err
		}
	}
	return nil
}

// For returns the menu visible to role.
func (m *Menu) For(role string) []domain.NavNode {
	return Filter(m.nodes, role)
}
