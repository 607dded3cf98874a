// ABOUTME: Integration tests for lift CLI.
// ABOUTME: Builds the binary and runs a full logging and recommendation workflow.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	liftBinary := filepath.Join(t.TempDir(), "lift")

	buildCmd := exec.Command("go", "build", "-o", liftBinary, "./cmd/lift")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	// Isolate data and config
	tmpDir := t.TempDir()
	env := append(os.Environ(),
		"XDG_DATA_HOME="+filepath.Join(tmpDir, "data"),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"LIFT_BACKEND=sqlite",
		"NO_COLOR=1",
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(liftBinary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	output, err := run("session", "start", "lower a")
	if err != nil {
		t.Fatalf("Failed to start session: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Started session") {
		t.Errorf("Expected 'Started session' in output, got: %s", output)
	}
	sessionID := ""
	for _, line := range strings.Split(output, "\n") {
		if id, ok := strings.CutPrefix(strings.TrimSpace(line), "ID: "); ok {
			sessionID = id
		}
	}
	if sessionID == "" {
		t.Fatalf("No session ID in output: %s", output)
	}

	output, err = run("log", "squat", "100", "5", "--rpe", "8", "--session", sessionID)
	if err != nil {
		t.Fatalf("Failed to log set: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Logged squat") {
		t.Errorf("Expected 'Logged squat' in output, got: %s", output)
	}

	output, err = run("log", "squat", "100", "5", "--rpe", "11")
	if err == nil {
		t.Errorf("Expected out-of-range RPE to fail, got: %s", output)
	}

	output, err = run("session", "finish", sessionID)
	if err != nil {
		t.Fatalf("Failed to finish session: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Volume: 500kg") {
		t.Errorf("Expected 'Volume: 500kg' in output, got: %s", output)
	}

	// One set at the target RPE: optimal band, stable trend, +2.5%
	output, err = run("recommend", "squat")
	if err != nil {
		t.Fatalf("Failed to recommend: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Next: 102.5kg × 5, rest 120s") {
		t.Errorf("Expected 102.5kg recommendation, got: %s", output)
	}

	output, err = run("sets", "--exercise", "squat")
	if err != nil {
		t.Fatalf("Failed to list sets: %v\n%s", err, output)
	}
	if !strings.Contains(output, "squat") {
		t.Errorf("Expected 'squat' in sets output, got: %s", output)
	}

	output, err = run("stats")
	if err != nil {
		t.Fatalf("Failed to show stats: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Completed sessions: 1") {
		t.Errorf("Expected one completed session, got: %s", output)
	}

	output, err = run("export", "json")
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	if !strings.Contains(output, `"tool": "lift"`) {
		t.Errorf("Expected lift export header, got: %s", output)
	}
}
