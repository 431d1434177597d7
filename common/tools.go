package common

import (
	"os/user"
	"path/filepath"
	"strings"
)

// HomeExpand expands a leading '~' with the current user's home directory.
func HomeExpand(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(u.HomeDir, path[1:]), nil
}
