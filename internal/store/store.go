// Package store reads and writes the on-disk dataset: a data directory
// holding composers/, compositions/, collections/, and catalogs/, all
// JSON, plus the user-level wv configuration.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/werklab/wv/internal/schema"
)

// Store is an opened data directory.
type Store struct {
	DataDir string
	Config  *Config
}

// ResolveDataDir picks the data directory: the explicit flag, then the
// configured data_dir (which WV_DATA_DIR overrides), then the nearest
// ancestor of the working directory that looks like a dataset.
func ResolveDataDir(flag string, cfg *Config) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if cfg != nil && cfg.DataDir != "" {
		return cfg.DataDir, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if isDataDir(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no data directory found: pass --data-dir, set WV_DATA_DIR, or run inside a dataset")
}

func isDataDir(dir string) bool {
	for _, sub := range []string{"composers", "compositions"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			return false
		}
	}
	return true
}

// Open loads config and resolves the data directory in one step.
func Open(dataDirFlag string) (*Store, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	dir, err := ResolveDataDir(dataDirFlag, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{DataDir: dir, Config: cfg}, nil
}

// PathForID maps a composition id to its file: the first two characters
// name the shard directory, the rest the file.
func (s *Store) PathForID(id string) (string, error) {
	if len(id) != 8 {
		return "", fmt.Errorf("invalid composition id %q: want 8 hex characters", id)
	}
	return filepath.Join(s.DataDir, "compositions", id[:2], id[2:]+".json"), nil
}

// ExtractIDFromPath recovers a composition id from its file path.
func ExtractIDFromPath(path string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), ".json")
	shard := filepath.Base(filepath.Dir(path))
	id := shard + base
	if len(id) != 8 {
		return "", fmt.Errorf("path %q does not name a composition", path)
	}
	return id, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// WriteJSONFile writes v as indented JSON, creating parent directories.
// Index output and tests share it.
func WriteJSONFile(path string, v any) error {
	return writeJSON(path, v)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// LoadComposition reads one composition by id.
func (s *Store) LoadComposition(id string) (*schema.Composition, error) {
	path, err := s.PathForID(id)
	if err != nil {
		return nil, err
	}
	var comp schema.Composition
	if err := readJSON(path, &comp); err != nil {
		return nil, err
	}
	return &comp, nil
}

// SaveComposition writes one composition to its id-derived path.
func (s *Store) SaveComposition(comp *schema.Composition) error {
	path, err := s.PathForID(comp.ID)
	if err != nil {
		return err
	}
	return writeJSON(path, comp)
}

// CompositionIDs lists every composition id in the dataset, sorted.
func (s *Store) CompositionIDs() ([]string, error) {
	root := filepath.Join(s.DataDir, "compositions")
	shards, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, shard.Name()))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
				continue
			}
			ids = append(ids, shard.Name()+strings.TrimSuffix(f.Name(), ".json"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// LoadComposer reads one composer by slug.
func (s *Store) LoadComposer(slug string) (*schema.Composer, error) {
	var c schema.Composer
	if err := readJSON(filepath.Join(s.DataDir, "composers", slug+".json"), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ComposerSlugs lists every composer in the dataset, sorted.
func (s *Store) ComposerSlugs() ([]string, error) {
	files, err := os.ReadDir(filepath.Join(s.DataDir, "composers"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var slugs []string
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(f.Name(), ".json"))
	}
	sort.Strings(slugs)
	return slugs, nil
}

// Collections reads every collection in the dataset.
func (s *Store) Collections() ([]schema.Collection, error) {
	dir := filepath.Join(s.DataDir, "collections")
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []schema.Collection
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		var coll schema.Collection
		if err := readJSON(filepath.Join(dir, f.Name()), &coll); err != nil {
			return nil, err
		}
		out = append(out, coll)
	}
	return out, nil
}

// CollectionsFor returns the collections a composition belongs to.
func (s *Store) CollectionsFor(id string) ([]schema.Collection, error) {
	all, err := s.Collections()
	if err != nil {
		return nil, err
	}
	var out []schema.Collection
	for _, coll := range all {
		for _, member := range coll.Compositions {
			if member == id {
				out = append(out, coll)
				break
			}
		}
	}
	return out, nil
}

// readSchemeFile decodes one scheme definition. Definitions are
// hand-authored, so both JSON and YAML are accepted.
func readSchemeFile(path string, def *schema.Scheme) error {
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, def); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	}
	return readJSON(path, def)
}

// SchemeDefs loads every global scheme definition, keyed by scheme id.
func (s *Store) SchemeDefs() (map[string]*schema.Scheme, error) {
	dir := filepath.Join(s.DataDir, "catalogs")
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*schema.Scheme{}, nil
		}
		return nil, err
	}

	defs := make(map[string]*schema.Scheme)
	for _, f := range files {
		ext := filepath.Ext(f.Name())
		if f.IsDir() || (ext != ".json" && ext != ".yaml" && ext != ".yml") {
			continue
		}
		id := strings.TrimSuffix(f.Name(), ext)
		var def schema.Scheme
		if err := readSchemeFile(filepath.Join(dir, f.Name()), &def); err != nil {
			return nil, err
		}
		defs[id] = &def
	}
	return defs, nil
}

// SchemeDefsFor loads the scheme definitions in effect for one composer:
// the global definitions with the composer's own catalog entries merged
// over them field by field.
func (s *Store) SchemeDefsFor(composer *schema.Composer) (map[string]*schema.Scheme, error) {
	defs, err := s.SchemeDefs()
	if err != nil {
		return nil, err
	}
	for id, override := range composer.Catalogs {
		if base, ok := defs[id]; ok {
			merged := mergeSchemeDef(base, override)
			defs[id] = merged
		} else {
			defs[id] = override
		}
	}
	return defs, nil
}

// mergeSchemeDef overlays a composer-specific definition on a global one.
// Set fields in the override win; unset fields keep the global value.
func mergeSchemeDef(base, override *schema.Scheme) *schema.Scheme {
	merged := *base
	if override.Name != "" {
		merged.Name = override.Name
	}
	if override.Description != "" {
		merged.Description = override.Description
	}
	if override.CanonicalFormat != "" {
		merged.CanonicalFormat = override.CanonicalFormat
	}
	if override.Pattern != "" {
		merged.Pattern = override.Pattern
	}
	if len(override.SortKeys) > 0 {
		merged.SortKeys = override.SortKeys
	}
	if len(override.GroupBy) > 0 {
		merged.GroupBy = override.GroupBy
	}
	if len(override.Aliases) > 0 {
		merged.Aliases = override.Aliases
	}
	if len(override.Editions) > 0 {
		merged.Editions = override.Editions
	}
	if override.StrictRanges {
		merged.StrictRanges = true
	}
	if override.MBFormat != "" {
		merged.MBFormat = override.MBFormat
	}
	if override.MBPartFormat != "" {
		merged.MBPartFormat = override.MBPartFormat
	}
	return &merged
}
