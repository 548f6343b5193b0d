//go:build !wasm
// +build !wasm

package env

import (
	"fmt"
	"os"
	"time"
)

// SetupDefaultLogger configures the default logger for backend environments
func SetupDefaultLogger() func(a ...any) {
	return func(a ...any) {
		fmt.Println(a...)
	}
}

func SetupDefaultFileWriter() func(filename string, data []byte) error {
	return func(filename string, data []byte) error {
		return os.WriteFile(filename, data, 0644)
	}
}

func SetupDefaultFileReader() func(filename string) ([]byte, error) {
	return os.ReadFile
}

func SetupDefaultFileStat() func(filename string) (int64, time.Time, error) {
	return func(filename string) (int64, time.Time, error) {
		info, err := os.Stat(filename)
		if err != nil {
			return 0, time.Time{}, err
		}
		if info.IsDir() {
			return 0, time.Time{}, fmt.Errorf("path is a directory, not a file: %s", filename)
		}
		return info.Size(), info.ModTime(), nil
	}
}
