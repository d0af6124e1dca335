package bridge

import (
	"fmt"
	"os"
)

// writeCapture replaces the contents of path with pcm.
func writeCapture(path string, pcm []byte) error {
	if err := os.WriteFile(path, pcm, 0o644); err != nil {
		return fmt.Errorf("failed to write capture file: %w", err)
	}
	return nil
}
