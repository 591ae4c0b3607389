package domain

// NavNode is one entry in the sidebar menu tree.
// A node without roles is visible to everyone.
type NavNode struct {
	Name     string    `json:"name" yaml:"name"`
	URL      string    `json:"url,omitempty" yaml:"url"`
	Icon     string    `json:"icon,omitempty" yaml:"icon"`
	Roles    []string  `json:"roles,omitempty" yaml:"roles"`
	Children []NavNode `json:"children,omitempty" yaml:"children"`
}
