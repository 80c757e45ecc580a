package pkg

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindUpwards(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "app", "routes")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "config"), 0755))

	target := filepath.Join(root, "config", "environment.json")
	require.NoError(t, ioutil.WriteFile(target, []byte("{}"), 0644))

	found, err := FindUpwards(nested, "config/environment.star", "config/environment.json")
	require.NoError(t, err)
	assert.Equal(t, target, found)

	_, err = FindUpwards(nested, "config/does-not-exist.yml")
	assert.True(t, eris.Is(err, os.ErrNotExist))
}

func TestFindUpwardsSkipsShadowingFiles(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "app")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "config"), 0755))
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(nested, "config"), []byte("not a directory"), 0644))

	target := filepath.Join(root, "config", "environment.yml")
	require.NoError(t, ioutil.WriteFile(target, []byte("development: {}\n"), 0644))

	found, err := FindUpwards(nested, "config/environment.yml")
	require.NoError(t, err)
	assert.Equal(t, target, found)
}

func TestReadInput(t *testing.T) {
	content, err := ReadInput("missing.txt", []string{"inline"})
	require.NoError(t, err)
	assert.Equal(t, "inline", content)

	content, err = ReadInput("missing.txt", []string{""})
	require.NoError(t, err)
	assert.Equal(t, "", content)

	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("from file"), 0644))

	content, err = ReadInput(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "from file", content)

	_, err = ReadInput(filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dist", "app.css")

	require.NoError(t, WriteFileAtomic(target, []byte("a{}"), 0644))
	require.NoError(t, WriteFileAtomic(target, []byte("b{}"), 0644))

	data, err := ioutil.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "b{}", string(data))

	items, err := ioutil.ReadDir(filepath.Join(dir, "dist"))
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestWriteBrotli(t *testing.T) {
	target := filepath.Join(t.TempDir(), "app.css")
	require.NoError(t, WriteBrotli(target, []byte("body { margin: 0; }")))

	hdl, err := os.Open(target + ".br")
	require.NoError(t, err)
	defer hdl.Close()

	data, err := ioutil.ReadAll(brotli.NewReader(hdl))
	require.NoError(t, err)
	assert.Equal(t, "body { margin: 0; }", string(data))
}
