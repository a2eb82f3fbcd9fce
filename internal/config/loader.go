package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "FRAMEFIT_CONFIG"

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source says where an effective value came from.
type Source struct {
	Kind   SourceKind
	Name   string // for builtin/default
	File   string
	Line   int
	Column int
}

func nodeSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

type LoadResult struct {
	Config   *Config
	Sources  map[string]Source // YAML path -> last file that set it
	BoxBases map[string]string // box name -> builtin base name
	Files    []string          // every loaded file, includes first
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load plus per-key sources for introspection. The
// FRAMEFIT_CONFIG environment variable replaces the default path.
func LoadWithSources() (*LoadResult, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return LoadFromPath(path)
	}
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from path, following includes. A missing file
// yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &includeLoader{seen: make(map[string]bool)}

	layer := fileLayer{sources: map[string]Source{}}
	if _, err := os.Stat(path); err == nil {
		if layer, err = l.load(path, nil); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg, boxBases, err := BuildEffectiveConfig(layer.raw)
	if err != nil {
		return nil, attachSourceContext(err, layer.sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, layer.sources)
	}

	return &LoadResult{
		Config:   cfg,
		Sources:  layer.sources,
		BoxBases: boxBases,
		Files:    layer.files,
	}, nil
}

// fileLayer is one file merged over everything it includes.
type fileLayer struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
}

func (f *fileLayer) apply(over fileLayer) {
	f.raw = f.raw.merge(over.raw)
	for k, src := range over.sources {
		f.sources[k] = src
	}
	f.files = append(f.files, over.files...)
}

// includeLoader follows include directives. A file reached twice is merged
// once; a file that includes itself, directly or not, is an error.
type includeLoader struct {
	seen map[string]bool
}

func (l *includeLoader) load(path string, stack []string) (fileLayer, error) {
	canon := canonicalPath(path)
	if slices.Contains(stack, canon) {
		return fileLayer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(stack, " -> "), canon)
	}
	out := fileLayer{sources: map[string]Source{}}
	if l.seen[canon] {
		return out, nil
	}
	l.seen[canon] = true

	data, err := os.ReadFile(canon)
	if err != nil {
		return fileLayer{}, fmt.Errorf("%s: failed to read: %w", canon, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fileLayer{}, fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	var raw RawConfig
	if err := decodeStrict(data, &raw); err != nil {
		return fileLayer{}, fmt.Errorf("%s: %w", canon, err)
	}

	root := rootMapping(&doc)
	for _, ref := range includeRefs(root, canon) {
		paths, err := expandInclude(canon, ref.value)
		if err != nil {
			return fileLayer{}, fmt.Errorf("%s:%d:%d: include %q: %w", ref.src.File, ref.src.Line, ref.src.Column, ref.value, err)
		}
		for _, p := range paths {
			inc, err := l.load(p, append(stack, canon))
			if err != nil {
				return fileLayer{}, err
			}
			out.apply(inc)
		}
	}

	// The including file wins over what it includes.
	self := fileLayer{raw: raw, sources: map[string]Source{}, files: []string{canon}}
	collectSources(root, canon, "", self.sources)
	out.apply(self)
	return out, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// canonicalPath resolves symlinks when it can, so a file reached by two
// names is only merged once.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// expandInclude returns the file an include names, or the .yaml/.yml files
// of a directory in name order.
func expandInclude(baseFile, include string) ([]string, error) {
	path, err := resolveInclude(baseFile, include)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(path, ent.Name()))
			}
		}
	}
	slices.Sort(files)
	return files, nil
}

func resolveInclude(baseFile, include string) (string, error) {
	if include == "" {
		return "", fmt.Errorf("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		include = filepath.Join(home, strings.TrimPrefix(include[1:], "/"))
	}
	if filepath.IsAbs(include) {
		return include, nil
	}
	return filepath.Join(filepath.Dir(baseFile), include), nil
}

func rootMapping(doc *yaml.Node) *yaml.Node {
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

// collectSources records the position of every mapping value under prefix.
// Sequences are recorded as a whole.
func collectSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			path, val := node.Content[i].Value, node.Content[i+1]
			if prefix != "" {
				path = prefix + "." + path
			}
			out[path] = nodeSource(file, val)
			collectSources(val, file, path, out)
		}
	case yaml.SequenceNode:
		if prefix != "" {
			out[prefix] = nodeSource(file, node)
		}
	}
}

type includeRef struct {
	value string
	src   Source
}

func includeRefs(root *yaml.Node, file string) []includeRef {
	if root == nil {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		items := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			items = val.Content
		}
		var refs []includeRef
		for _, item := range items {
			if item.Kind == yaml.ScalarNode {
				refs = append(refs, includeRef{value: item.Value, src: nodeSource(file, item)})
			}
		}
		return refs
	}
	return nil
}

func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}
