package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Issue is one health check finding.
type Issue struct {
	Severity string // "warning" or "error"
	Message  string
}

// CheckHealth verifies the data directory structure: required
// subdirectories exist and every JSON file parses. Semantic validation
// lives in internal/validate; this is the cheap structural pass doctor
// runs first.
func CheckHealth(dataDir string) []Issue {
	var issues []Issue

	for _, dir := range []string{"composers", "compositions"} {
		p := filepath.Join(dataDir, dir)
		info, err := os.Stat(p)
		if err != nil {
			issues = append(issues, Issue{"error", fmt.Sprintf("missing directory: %s", p)})
		} else if !info.IsDir() {
			issues = append(issues, Issue{"error", fmt.Sprintf("expected directory but found file: %s", p)})
		}
	}
	for _, dir := range []string{"collections", "catalogs"} {
		p := filepath.Join(dataDir, dir)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			issues = append(issues, Issue{"error", fmt.Sprintf("expected directory but found file: %s", p)})
		}
	}

	issues = append(issues, checkJSONFiles(filepath.Join(dataDir, "composers"))...)
	issues = append(issues, checkJSONFiles(filepath.Join(dataDir, "collections"))...)
	issues = append(issues, checkJSONFiles(filepath.Join(dataDir, "catalogs"))...)

	shards, err := os.ReadDir(filepath.Join(dataDir, "compositions"))
	if err == nil {
		for _, shard := range shards {
			if !shard.IsDir() {
				issues = append(issues, Issue{"warning", fmt.Sprintf("stray file in compositions/: %s", shard.Name())})
				continue
			}
			if len(shard.Name()) != 2 {
				issues = append(issues, Issue{"warning", fmt.Sprintf("unexpected shard directory: compositions/%s", shard.Name())})
				continue
			}
			shardDir := filepath.Join(dataDir, "compositions", shard.Name())
			issues = append(issues, checkJSONFiles(shardDir)...)
			if files, err := os.ReadDir(shardDir); err == nil {
				for _, f := range files {
					if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
						continue
					}
					if _, err := ExtractIDFromPath(filepath.Join(shardDir, f.Name())); err != nil {
						issues = append(issues, Issue{"warning", fmt.Sprintf("compositions/%s/%s does not name a composition id", shard.Name(), f.Name())})
					}
				}
			}
		}
	}

	return issues
}

func checkJSONFiles(dir string) []Issue {
	var issues []Issue
	files, err := os.ReadDir(dir)
	if err != nil {
		return issues
	}
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, f.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			issues = append(issues, Issue{"error", fmt.Sprintf("cannot read %s: %v", path, err)})
			continue
		}
		if !json.Valid(data) {
			issues = append(issues, Issue{"error", fmt.Sprintf("%s is not valid JSON", path)})
		}
	}
	return issues
}

// FixIssues repairs what it safely can: missing directories.
func FixIssues(dataDir string) []string {
	var fixed []string
	for _, dir := range []string{"composers", "compositions", "collections", "catalogs"} {
		p := filepath.Join(dataDir, dir)
		if _, err := os.Stat(p); err != nil {
			if err := os.MkdirAll(p, 0755); err == nil {
				fixed = append(fixed, fmt.Sprintf("created missing directory: %s", dir))
			}
		}
	}
	return fixed
}
