// Package embedded gives other packages access to the data files embedded
// by the root package.
//
// //go:embed can only reach files below the declaring package, so the
// embed.FS lives in the project root (embed.go) and is handed over here
// through Init, which must run before any config is loaded from "data/".
package embedded

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

var (
	dataFS      fs.FS
	initialized bool
)

// Init registers the data filesystem.
func Init(data fs.FS) {
	dataFS = data
	initialized = true
}

// IsInitialized reports whether Init has been called.
func IsInitialized() bool {
	return initialized
}

// normalize converts path separators to slashes and strips a leading "./".
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// IsDataPath reports whether path addresses the embedded data directory.
func IsDataPath(path string) bool {
	return strings.HasPrefix(normalize(path), "data/")
}

// ReadFile reads a file from the embedded data directory.
// The path must start with "data/".
func ReadFile(path string) ([]byte, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	path = normalize(path)
	if !strings.HasPrefix(path, "data/") {
		return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return fs.ReadFile(dataFS, path)
}

// Exists reports whether path exists in the embedded data directory.
func Exists(path string) bool {
	if !initialized || !IsDataPath(path) {
		return false
	}
	_, err := fs.Stat(dataFS, normalize(path))
	return err == nil
}

// Glob matches files in the embedded data directory.
func Glob(pattern string) ([]string, error) {
	if !initialized {
		return nil, fmt.Errorf("embedded package not initialized, call Init() first")
	}
	return fs.Glob(dataFS, normalize(pattern))
}
