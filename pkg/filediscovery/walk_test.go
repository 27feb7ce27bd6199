package filediscovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestDiscoverFiles_ExtensionsAndExcludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b/Zeta.java":              "class Zeta {}",
		"a/Alpha.java":             "class Alpha {}",
		"a/notes.txt":              "x",
		"Main.java":                "class Main {}",
		".git/hooks/Hook.java":     "class Hook {}",
		"node_modules/x/Dep.java":  "class Dep {}",
		".idea/Workspace.java":     "class W {}",
		"venv/lib/Site.java":       "class S {}",
		"src/__pycache__/Gen.java": "class G {}",
		"src/main/java/App.java":   "class App {}",
	})

	files, err := DiscoverFiles(root, WalkOptions{Extensions: []string{".java"}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Main.java",
		"a/Alpha.java",
		"b/Zeta.java",
		"src/main/java/App.java",
	}, relAll(t, root, files))
}

func TestDiscoverFiles_IgnoreRules(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":            "build/\n*Generated.java\n",
		".codebaseai/.ignore":   "legacy/\n",
		"build/Out.java":        "class Out {}",
		"src/FooGenerated.java": "class FooGenerated {}",
		"src/Foo.java":          "class Foo {}",
		"legacy/Old.java":       "class Old {}",
	})

	files, err := DiscoverFiles(root, WalkOptions{Extensions: []string{".java"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Foo.java"}, relAll(t, root, files))

	all, err := DiscoverFiles(root, WalkOptions{Extensions: []string{".java"}, NoIgnore: true})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestWalk_CallbackErrorStops(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"A.java": "", "B.java": ""})

	stop := errors.New("stop")
	var seen int
	err := Walk(root, WalkOptions{}, func(path string) error {
		seen++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

func TestWalk_MissingRoot(t *testing.T) {
	err := Walk(filepath.Join(t.TempDir(), "missing"), WalkOptions{}, func(string) error { return nil })
	assert.Error(t, err)
}

func TestGetIgnoreRules_NoFiles(t *testing.T) {
	assert.Nil(t, GetIgnoreRules(t.TempDir()))
}
