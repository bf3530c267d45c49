package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
)

// ReadStringFromFile reads the whole file and returns its content without surrounding whitespace
func ReadStringFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func ReadIntFromFile(path string) (value int, err error) {
	text, err := ReadStringFromFile(path)
	if err != nil {
		return -1, err
	}
	if len(text) <= 0 {
		return -1, fmt.Errorf("file is empty: %s", path)
	}
	return strconv.Atoi(text)
}

func resolvePath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// WriteIntToFileAtomic replaces the content of the file at path with the given integer,
// readers never observe a partially written value
func WriteIntToFileAtomic(value int, path string) error {
	evaluatedPath, err := resolvePath(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	valueAsString := fmt.Sprintf("%d", value)
	return atomic.WriteFile(path, strings.NewReader(valueAsString))
}
