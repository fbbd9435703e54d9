package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultWorkDir returns ~/.procwatch, shared by the config file and the log.
func DefaultWorkDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.ExpandEnv("${HOME}")
	}
	return filepath.Join(home, ".procwatch")
}

func ByteCountSI(b int64) string {
	const unit = 1000
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(b)/float64(div), "kMGTPE"[exp])
}

// PrepareDir ensures that the specified directory path exists.
// If the directory does not exist, it attempts to create it.
func PrepareDir(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
		} else {
			return err
		}
	} else if !stat.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
