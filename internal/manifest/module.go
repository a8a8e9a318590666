package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Module is an entry of a manifest's modules list: either an inline
// *BuildModule or a ModuleReference to a separate module file.
type Module interface {
	// ModuleName is the name flatpak-builder knows the module by.
	ModuleName() string
	isModule()
}

// BuildModule is a module defined inline.
type BuildModule struct {
	Name          string   `json:"name" yaml:"name"`
	BuildSystem   string   `json:"buildsystem" yaml:"buildsystem"`
	ConfigOpts    []string `json:"config-opts" yaml:"config-opts"`
	BuildCommands []string `json:"build-commands" yaml:"build-commands"`
	PostInstall   []string `json:"post-install" yaml:"post-install"`
	Sources       []Source `json:"sources" yaml:"sources"`
}

func (m *BuildModule) ModuleName() string { return m.Name }
func (*BuildModule) isModule()            {}

// ModuleReference is the path of a module file relative to the manifest.
type ModuleReference string

func (r ModuleReference) ModuleName() string { return string(r) }
func (ModuleReference) isModule()            {}

// ModuleList decodes a heterogeneous modules list.
type ModuleList []Module

func (l *ModuleList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	modules := make(ModuleList, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var ref string
			if err := json.Unmarshal(item, &ref); err != nil {
				return fmt.Errorf("module %d: %w", i, err)
			}
			modules = append(modules, ModuleReference(ref))
			continue
		}

		var module BuildModule
		if err := json.Unmarshal(item, &module); err != nil {
			return fmt.Errorf("module %d: %w", i, err)
		}
		if module.Name == "" {
			return fmt.Errorf("module %d: missing name", i)
		}
		modules = append(modules, &module)
	}

	*l = modules
	return nil
}

func (l *ModuleList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: modules must be a list", node.Line)
	}

	modules := make(ModuleList, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			modules = append(modules, ModuleReference(item.Value))
		case yaml.MappingNode:
			var module BuildModule
			if err := item.Decode(&module); err != nil {
				return err
			}
			if module.Name == "" {
				return fmt.Errorf("line %d: module missing name", item.Line)
			}
			modules = append(modules, &module)
		default:
			return fmt.Errorf("line %d: unexpected module entry", item.Line)
		}
	}

	*l = modules
	return nil
}

// Source is a module source. A bare string entry is a reference to a
// separate source file and only sets Reference.
type Source struct {
	Type      string `json:"type" yaml:"type"`
	Path      string `json:"path" yaml:"path"`
	URL       string `json:"url" yaml:"url"`
	Tag       string `json:"tag" yaml:"tag"`
	Commit    string `json:"commit" yaml:"commit"`
	Branch    string `json:"branch" yaml:"branch"`
	Reference string `json:"-" yaml:"-"`
}

type plainSource Source

func (s *Source) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*s = Source{}
		return json.Unmarshal(data, &s.Reference)
	}
	return json.Unmarshal(data, (*plainSource)(s))
}

func (s *Source) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = Source{Reference: node.Value}
		return nil
	}
	return node.Decode((*plainSource)(s))
}
