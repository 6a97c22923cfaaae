package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/assetpipe/core/normalize"
)

// DefaultAssetDir is used when no asset directory is configured.
const DefaultAssetDir = "images"

// AssetDirs is the images_path setting: either a single directory name or
// an ordered list of names. The rest of the program only sees List().
type AssetDirs struct {
	single string
	list   []string
	isList bool
}

// SingleDir returns an AssetDirs holding one directory.
func SingleDir(name string) AssetDirs {
	return AssetDirs{single: name}
}

// DirList returns an AssetDirs holding an ordered list of directories.
func DirList(names ...string) AssetDirs {
	return AssetDirs{list: append([]string(nil), names...), isList: true}
}

// IsList reports whether the setting was given as a list.
func (d AssetDirs) IsList() bool {
	return d.isList
}

// List returns the configured directories, normalized, with blanks removed.
// It falls back to ["images"] when nothing usable is configured.
func (d AssetDirs) List() []string {
	raw := d.list
	if !d.isList {
		raw = []string{d.single}
	}

	out := make([]string, 0, len(raw))
	for _, name := range raw {
		if n := normalize.Path(name); n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return []string{DefaultAssetDir}
	}
	return out
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (d *AssetDirs) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*d = SingleDir(value.Value)
		return nil
	case yaml.SequenceNode:
		names := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			if node.Kind != yaml.ScalarNode {
				return fmt.Errorf("images_path entries must be strings (line %d)", node.Line)
			}
			names = append(names, node.Value)
		}
		*d = DirList(names...)
		return nil
	default:
		return fmt.Errorf("images_path must be a string or a list of strings (line %d)", value.Line)
	}
}

// MarshalYAML writes the setting back in the form it was given.
func (d AssetDirs) MarshalYAML() (interface{}, error) {
	if d.isList {
		return d.list, nil
	}
	return d.single, nil
}

// ParseAssetDirs converts a loosely typed value, as produced by viper from
// flags, environment or a config file, into AssetDirs.
func ParseAssetDirs(v interface{}) (AssetDirs, error) {
	switch t := v.(type) {
	case nil:
		return AssetDirs{}, nil
	case string:
		return SingleDir(t), nil
	case []string:
		if len(t) == 1 {
			return SingleDir(t[0]), nil
		}
		return DirList(t...), nil
	case []interface{}:
		names := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return AssetDirs{}, fmt.Errorf("images_path entries must be strings, got %T", item)
			}
			names = append(names, s)
		}
		return DirList(names...), nil
	default:
		return AssetDirs{}, fmt.Errorf("images_path must be a string or a list of strings, got %T", v)
	}
}
