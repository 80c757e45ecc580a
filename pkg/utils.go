package pkg

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"syscall"

	"github.com/aidarkhanov/nanoid"
	"github.com/andybalholm/brotli"
	"github.com/rotisserie/eris"
)

// FindUpwards walks from start towards the filesystem root and returns the first existing path
// made of a visited directory joined with one of the candidates.
func FindUpwards(start string, candidates ...string) (string, error) {
	path, err := filepath.Abs(start)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to resolve %s", start)
	}

	for {
		for _, candidate := range candidates {
			candidatePath := filepath.Join(path, candidate)
			_, err := os.Stat(candidatePath)
			if err == nil {
				return candidatePath, nil
			}

			// ENOTDIR: a file shadows one of the candidate's directories
			if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
				return "", eris.Wrapf(err, "Failed to check %s", candidatePath)
			}
		}

		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}

	return "", eris.Wrapf(os.ErrNotExist, "none of %v found above %s", candidates, start)
}

// ReadInput returns content if the caller passed it, otherwise the content of the file at path.
// Build plugins are invoked as "<cmd> <fileName> <fileContent>" but the content is optional.
func ReadInput(path string, content []string) (string, error) {
	if len(content) > 0 {
		return content[0], nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to read %s", path)
	}
	return string(data), nil
}

// WriteFileAtomic writes data to a temporary sibling of filename and renames it into place so
// that watchers never observe a half written file.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return eris.Wrapf(err, "Failed to create directory %s", dir)
	}

	tmpName := filepath.Join(dir, "."+filepath.Base(filename)+"."+nanoid.New()+".tmp")
	err = ioutil.WriteFile(tmpName, data, perm)
	if err != nil {
		return eris.Wrapf(err, "Failed to write %s", tmpName)
	}

	err = os.Rename(tmpName, filename)
	if err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "Failed to move %s to %s", tmpName, filename)
	}

	return nil
}

// WriteBrotli stores a brotli compressed copy of data next to filename (filename + ".br").
func WriteBrotli(filename string, data []byte) error {
	hdl, err := os.Create(filename + ".br")
	if err != nil {
		return eris.Wrapf(err, "Failed to create %s.br", filename)
	}

	brw := brotli.NewWriterLevel(hdl, brotli.BestCompression)
	_, err = brw.Write(data)
	if err != nil {
		hdl.Close()
		return eris.Wrapf(err, "Failed to compress %s", filename)
	}

	err = brw.Close()
	if err != nil {
		hdl.Close()
		return eris.Wrapf(err, "Failed to compress %s", filename)
	}

	return hdl.Close()
}
