package dto

// ViewDescriptor tells the shell which view to mount for an allowed navigation.
type ViewDescriptor struct {
	Path   string            `json:"path"`
	View   string            `json:"view"`
	Params map[string]string `json:"params,omitempty"`
	Roles  []string          `json:"roles,omitempty"`
}
