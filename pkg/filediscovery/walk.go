package filediscovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/alantheprice/codebaseai/pkg/utils"
)

// DefaultExcludeDirs are directory names never descended into
var DefaultExcludeDirs = []string{
	".git", "__pycache__", "venv", "node_modules", ".idea", ".vscode",
	".pytest_cache", ".mypy_cache", ".env",
}

// WalkOptions configures a source tree walk
type WalkOptions struct {
	Extensions  []string // empty means every file
	ExcludeDirs []string // nil means DefaultExcludeDirs
	NoIgnore    bool     // skip .gitignore and .codebaseai/.ignore rules
}

// Walk calls fn with the path of every matching file under root in lexical
// order. An error returned by fn stops the walk and is returned.
func Walk(root string, opts WalkOptions, fn func(path string) error) error {
	excluded := opts.ExcludeDirs
	if excluded == nil {
		excluded = DefaultExcludeDirs
	}
	skip := make(map[string]bool, len(excluded))
	for _, d := range excluded {
		skip[d] = true
	}

	var rules *ignore.GitIgnore
	if !opts.NoIgnore {
		rules = GetIgnoreRules(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skip[d.Name()] || matches(rules, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if matches(rules, rel) {
			return nil
		}
		if !utils.IsValidFileExtension(path, opts.Extensions) {
			return nil
		}

		return fn(path)
	})
}

// DiscoverFiles returns every file Walk would visit
func DiscoverFiles(root string, opts WalkOptions) ([]string, error) {
	var files []string
	err := Walk(root, opts, func(path string) error {
		files = append(files, path)
		return nil
	})
	return files, err
}

func matches(rules *ignore.GitIgnore, rel string) bool {
	if rules == nil {
		return false
	}
	return rules.MatchesPath(rel) || rules.MatchesPath(strings.TrimSuffix(rel, "/"))
}
