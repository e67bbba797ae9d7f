//go:build integration

package integration_test

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	Binary    string // templint built from the module root
	HomeDir   string // TEMPLINT_HOME
	Templates string // root holding one directory per bundle
}

// setupTestEnv builds the binary and sandboxes its config home. The env vars
// are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		Binary:    filepath.Join(t.TempDir(), "templint"),
		HomeDir:   t.TempDir(),
		Templates: t.TempDir(),
	}
	if runtime.GOOS == "windows" {
		env.Binary += ".exe"
	}
	t.Setenv("TEMPLINT_HOME", env.HomeDir)

	build := exec.Command("go", "build", "-o", env.Binary, ".")
	build.Dir = filepath.Join("..", "..")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("building templint: %v\n%s", err, out)
	}
	return env
}

// run executes the binary and returns stdout, stderr and the exit code.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(e.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	var exit *exec.ExitError
	switch {
	case err == nil:
		return stdout.String(), stderr.String(), 0
	case errors.As(err, &exit):
		return stdout.String(), stderr.String(), exit.ExitCode()
	}
	t.Fatalf("running templint %v: %v", args, err)
	return "", "", -1
}

// writeBundle creates a bundle directory under the templates root.
func (e *testEnv) writeBundle(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(e.Templates, name)
	for file, content := range files {
		writeFile(t, filepath.Join(dir, file), content)
	}
	return dir
}

// writeFile creates a file with the given content, creating parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
