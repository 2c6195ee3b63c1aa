package chart

import (
	"fmt"
	"os/exec"
	"runtime"
)

// viewerCommand returns the desktop command that opens path with the
// user's default viewer on goos.
func viewerCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

// Show opens path in the default viewer and returns once the viewer has
// been started.
func Show(path string) error {
	name, args := viewerCommand(runtime.GOOS, path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s with %s: %w", path, name, err)
	}
	go cmd.Wait()
	return nil
}
