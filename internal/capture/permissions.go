package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FilePermissions remembers a camera grant as a marker file in the config dir.
type FilePermissions struct {
	Path string
}

func (p FilePermissions) Granted() bool {
	_, err := os.Stat(p.Path)
	return err == nil
}

func (p FilePermissions) Grant() error {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	stamp := time.Now().UTC().Format(time.RFC3339) + "\n"
	if err := os.WriteFile(p.Path, []byte(stamp), 0o600); err != nil {
		return fmt.Errorf("write grant: %w", err)
	}
	return nil
}
