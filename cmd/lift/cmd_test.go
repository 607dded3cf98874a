// ABOUTME: Tests for lift CLI commands.
// ABOUTME: Runs cobra commands in-process against a temporary SQLite database.
package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
)

func TestRootCmdExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}
	if rootCmd.Use != "lift" {
		t.Errorf("expected Use 'lift', got %q", rootCmd.Use)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"log", "sets", "delete", "session", "recommend", "progress",
		"stats", "rpe", "program", "export", "import", "migrate", "mcp", "sync", "install-skill",
	}
	registered := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("expected %s command to be registered", name)
		}
	}
}

func TestSessionSubcommandsRegistered(t *testing.T) {
	registered := map[string]bool{}
	for _, cmd := range sessionCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range []string{"start", "finish", "cancel", "list", "show", "delete"} {
		if !registered[name] {
			t.Errorf("expected session %s to be registered", name)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2025-03-10 18:30", false},
		{"2025-03-10T18:30", false},
		{"2025-03-10", false},
		{"2025-03-10T18:30:00Z", false},
		{"yesterday", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := parseTime(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestTruncateAndPad(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a very long note indeed", 10); got != "a very ..." {
		t.Errorf("truncate long = %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight overflow = %q", got)
	}
}

// resetFlags restores package-level flag variables between executions.
func resetFlags() {
	configPath = ""
	debug = false
	logRPE, logRest, logSession, logAt, logNotes = 0, 0, "", "", ""
	setsExercise, setsSession, setsLimit = "", "", 20
	sessionNotes, sessionAt, sessionProgram, sessionStatus, sessionLimit = "", "", "", "", 20
	recommendTarget, recommendRest, recommendProgram = 0, 0, ""
	exportOutput, exportExercise, exportSince = "", "", ""
	migrateFrom, migrateTo = "sqlite", "charm"
	migrateDryRun, migrateForce, migrateSetDefault = false, false, false
	skillSkipConfirm = false
}

// setupTestCLI points XDG directories at a temp dir and opens the same
// database the commands will use.
func setupTestCLI(t *testing.T) *storage.DB {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, key := range []string{"LIFT_BACKEND", "LIFT_DATA_DIR", "LIFT_TARGET_RPE", "LIFT_HISTORY_WINDOW"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	testDB, err := storage.Open(filepath.Join(tmpDir, "data", "lift", "lift.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if repo != nil {
			repo.Close()
			repo = nil
		}
		testDB.Close()
	})

	resetFlags()
	return testDB
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestLogCmdWithDB(t *testing.T) {
	testDB := setupTestCLI(t)

	if err := run(t, "log", "Squat", "100", "5", "--rpe", "8", "--rest", "150", "--notes", "belt"); err != nil {
		t.Fatalf("log command failed: %v", err)
	}

	sets, err := testDB.ListSets(storage.SetFilter{})
	if err != nil {
		t.Fatalf("ListSets failed: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("expected 1 set, got %d", len(sets))
	}
	s := sets[0]
	if s.Exercise != "squat" || s.Weight != 100 || s.Reps != 5 || s.RPE != 8 {
		t.Errorf("unexpected set: %+v", s)
	}
	if s.RestSeconds == nil || *s.RestSeconds != 150 {
		t.Error("rest not set correctly")
	}
	if s.Notes == nil || *s.Notes != "belt" {
		t.Error("notes not set correctly")
	}
}

func TestLogCmdWithTimestamp(t *testing.T) {
	testDB := setupTestCLI(t)

	if err := run(t, "log", "row", "60", "10", "--rpe", "7", "--at", "2025-03-10 18:30"); err != nil {
		t.Fatalf("log command failed: %v", err)
	}

	sets, _ := testDB.ListSets(storage.SetFilter{})
	if len(sets) != 1 {
		t.Fatalf("expected 1 set, got %d", len(sets))
	}
	got := sets[0].CompletedAt.Local()
	if got.Year() != 2025 || got.Month() != 3 || got.Day() != 10 || got.Hour() != 18 || got.Minute() != 30 {
		t.Errorf("unexpected timestamp %v", got)
	}
}

func TestLogCmdRejectsBadInput(t *testing.T) {
	testDB := setupTestCLI(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing rpe", []string{"log", "squat", "100", "5"}, "RPE is required"},
		{"rpe too high", []string{"log", "squat", "100", "5", "--rpe", "11"}, "out of range"},
		{"rpe too low", []string{"log", "squat", "100", "5", "--rpe", "-1"}, "out of range"},
		{"bad weight", []string{"log", "squat", "heavy", "5", "--rpe", "8"}, "invalid weight"},
		{"bad reps", []string{"log", "squat", "100", "five", "--rpe", "8"}, "invalid reps"},
		{"zero reps", []string{"log", "squat", "100", "0", "--rpe", "8"}, "reps"},
		{"bad timestamp", []string{"log", "squat", "100", "5", "--rpe", "8", "--at", "soon"}, "invalid timestamp"},
		{"unknown session", []string{"log", "squat", "100", "5", "--rpe", "8", "--session", "ffffffff"}, "session not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}

	sets, _ := testDB.ListSets(storage.SetFilter{})
	if len(sets) != 0 {
		t.Errorf("rejected sets must not be stored, got %d", len(sets))
	}
}

func TestSetsAndDeleteCmd(t *testing.T) {
	testDB := setupTestCLI(t)

	s := models.NewSet("bench press", 80, 5, 8)
	if err := testDB.CreateSet(s); err != nil {
		t.Fatalf("CreateSet failed: %v", err)
	}

	if err := run(t, "sets", "--exercise", "Bench Press", "-n", "5"); err != nil {
		t.Errorf("sets command failed: %v", err)
	}

	if err := run(t, "delete", s.ID.String()[:8]); err != nil {
		t.Fatalf("delete command failed: %v", err)
	}
	if _, err := testDB.GetSet(s.ID.String()); err == nil {
		t.Error("set should be deleted")
	}

	if err := run(t, "delete", "deadbeef"); err == nil {
		t.Error("deleting an unknown set should fail")
	}
}

func TestSessionWorkflow(t *testing.T) {
	testDB := setupTestCLI(t)

	if err := run(t, "session", "start", "lower a", "--notes", "heavy day"); err != nil {
		t.Fatalf("session start failed: %v", err)
	}
	sessions, err := testDB.ListSessions(nil, 0)
	if err != nil || len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d (%v)", len(sessions), err)
	}
	prefix := sessions[0].ID.String()[:8]

	for _, rpe := range []string{"7", "8", "9"} {
		if err := run(t, "log", "squat", "100", "5", "--rpe", rpe, "--session", prefix); err != nil {
			t.Fatalf("log into session failed: %v", err)
		}
	}

	if err := run(t, "sets", "--session", prefix); err != nil {
		t.Errorf("sets --session failed: %v", err)
	}
	if err := run(t, "session", "show", prefix); err != nil {
		t.Errorf("session show failed: %v", err)
	}
	if err := run(t, "session", "finish", prefix); err != nil {
		t.Fatalf("session finish failed: %v", err)
	}

	full, err := testDB.GetSessionWithSets(prefix)
	if err != nil {
		t.Fatalf("GetSessionWithSets failed: %v", err)
	}
	if full.Status != models.SessionCompleted {
		t.Errorf("expected completed, got %s", full.Status)
	}
	if full.TotalVolume != 1500 {
		t.Errorf("expected volume 1500, got %g", full.TotalVolume)
	}
	if full.AverageRPE == nil || *full.AverageRPE != 8 {
		t.Errorf("expected average RPE 8, got %v", full.AverageRPE)
	}
	for i, s := range full.Sets {
		if s.SetNumber != i+1 {
			t.Errorf("set %d numbered %d", i, s.SetNumber)
		}
	}

	if err := run(t, "log", "squat", "100", "5", "--rpe", "8", "--session", prefix); err == nil {
		t.Error("logging into a finished session should fail")
	}
	if err := run(t, "session", "cancel", prefix); err == nil {
		t.Error("cancelling a finished session should fail")
	}
	if err := run(t, "session", "list", "--status", "completed"); err != nil {
		t.Errorf("session list failed: %v", err)
	}
	if err := run(t, "session", "list", "--status", "paused"); err == nil {
		t.Error("unknown status should fail")
	}
}

func TestSessionCancelAndDelete(t *testing.T) {
	testDB := setupTestCLI(t)

	session := models.NewSession("upper")
	if err := testDB.CreateSession(session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	s := models.NewSet("press", 50, 5, 8).WithSession(session.ID)
	if err := testDB.CreateSet(s); err != nil {
		t.Fatalf("CreateSet failed: %v", err)
	}

	if err := run(t, "session", "cancel", session.ID.String()); err != nil {
		t.Fatalf("session cancel failed: %v", err)
	}
	got, _ := testDB.GetSession(session.ID.String())
	if got.Status != models.SessionCancelled {
		t.Errorf("expected cancelled, got %s", got.Status)
	}

	if err := run(t, "session", "delete", session.ID.String()[:8]); err != nil {
		t.Fatalf("session delete failed: %v", err)
	}
	if _, err := testDB.GetSet(s.ID.String()); err == nil {
		t.Error("deleting a session should delete its sets")
	}
}

func TestRecommendProgressStats(t *testing.T) {
	testDB := setupTestCLI(t)

	for i, rpe := range []int{9, 8, 7} {
		s := models.NewSet("squat", 100, 5, rpe)
		s.CompletedAt = s.CompletedAt.AddDate(0, 0, -i)
		if err := testDB.CreateSet(s); err != nil {
			t.Fatalf("CreateSet failed: %v", err)
		}
	}

	if err := run(t, "recommend", "squat"); err != nil {
		t.Errorf("recommend failed: %v", err)
	}
	if err := run(t, "recommend", "overhead press"); err != nil {
		t.Errorf("recommend without history failed: %v", err)
	}
	if err := run(t, "recommend", "squat", "--target-rpe", "12"); err == nil {
		t.Error("target RPE above 10 should fail")
	}
	if err := run(t, "progress"); err != nil {
		t.Errorf("progress failed: %v", err)
	}
	if err := run(t, "progress", "squat", "deadlift"); err != nil {
		t.Errorf("progress with exercises failed: %v", err)
	}
	if err := run(t, "stats"); err != nil {
		t.Errorf("stats failed: %v", err)
	}
}

func TestProgramCmdsNeedNoStorage(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "program", "list"); err != nil {
		t.Fatalf("program list failed: %v", err)
	}
	if err := run(t, "program", "show", "Lower B - Explosivity"); err != nil {
		t.Fatalf("program show failed: %v", err)
	}
	if repo != nil {
		t.Error("program commands should not open the repository")
	}
	if err := run(t, "program", "show", "leg day"); err == nil {
		t.Error("unknown program should fail")
	}
}

func TestSessionStartWithProgram(t *testing.T) {
	testDB := setupTestCLI(t)

	if err := run(t, "session", "start", "--program", "LOWER-A"); err != nil {
		t.Fatalf("session start --program failed: %v", err)
	}
	if err := run(t, "session", "start", "--program", "leg day"); err == nil {
		t.Error("unknown --program should fail")
	}
	if err := run(t, "session", "start", "push", "--program", "upper-a"); err == nil {
		t.Error("label and --program together should fail")
	}
	if err := run(t, "session", "start", "Upper B - Volume"); err != nil {
		t.Fatalf("session start with program name failed: %v", err)
	}

	sessions, err := testDB.ListSessions(nil, 0)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	programs := map[string]bool{}
	for _, s := range sessions {
		programs[s.Program] = true
	}
	if !programs["lower-a"] || !programs["upper-b"] {
		t.Errorf("expected catalog IDs to be stored, got %v", programs)
	}

	var lowerA string
	for _, s := range sessions {
		if s.Program == "lower-a" {
			lowerA = s.ID.String()[:8]
		}
	}
	if err := run(t, "log", "deadlift", "180", "5", "--rpe", "8", "--session", lowerA); err != nil {
		t.Fatalf("log into program session failed: %v", err)
	}
	if err := run(t, "recommend", "deadlift"); err != nil {
		t.Errorf("recommend for program exercise failed: %v", err)
	}
	if err := run(t, "recommend", "squat", "--program", "lower-b"); err != nil {
		t.Errorf("recommend --program failed: %v", err)
	}
	if err := run(t, "recommend", "squat", "--program", "leg day"); err == nil {
		t.Error("recommend with unknown program should fail")
	}
}

func TestRecommendTargetRPEBounds(t *testing.T) {
	setupTestCLI(t)

	for _, target := range []string{"0.5", "-1", "10.5"} {
		if err := run(t, "recommend", "squat", "--target-rpe="+target); err == nil {
			t.Errorf("target RPE %s should fail", target)
		}
	}
	if err := run(t, "recommend", "squat", "--target-rpe", "7.5"); err != nil {
		t.Errorf("target RPE 7.5 failed: %v", err)
	}
}

func TestRPECmdNeedsNoStorage(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "rpe"); err != nil {
		t.Fatalf("rpe failed: %v", err)
	}
	if repo != nil {
		t.Error("rpe should not open the repository")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	testDB := setupTestCLI(t)

	session := models.NewSession("full body")
	if err := testDB.CreateSession(session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := testDB.CreateSet(models.NewSet("squat", 100, 5, 8).WithSession(session.ID)); err != nil {
		t.Fatalf("CreateSet failed: %v", err)
	}
	if err := testDB.CreateSet(models.NewSet("curl", 15, 12, 7)); err != nil {
		t.Fatalf("CreateSet failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "backup.json")
	if err := run(t, "export", "json", "-o", out); err != nil {
		t.Fatalf("export json failed: %v", err)
	}
	for _, format := range []string{"yaml", "markdown"} {
		if err := run(t, "export", format, "-o", filepath.Join(t.TempDir(), "out."+format)); err != nil {
			t.Errorf("export %s failed: %v", format, err)
		}
	}
	if err := run(t, "export", "markdown", "--since", "March"); err == nil {
		t.Error("bad --since should fail")
	}
	if err := run(t, "export", "csv"); err == nil {
		t.Error("unknown format should fail")
	}

	if err := run(t, "import", out); err == nil {
		t.Error("importing duplicates should fail")
	}

	if err := testDB.DeleteSession(session.ID.String()); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	sets, _ := testDB.ListSets(storage.SetFilter{})
	for _, s := range sets {
		if err := testDB.DeleteSet(s.ID.String()); err != nil {
			t.Fatalf("DeleteSet failed: %v", err)
		}
	}

	if err := run(t, "import", out); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	sets, _ = testDB.ListSets(storage.SetFilter{})
	if len(sets) != 2 {
		t.Errorf("expected 2 sets after import, got %d", len(sets))
	}
	if _, err := testDB.GetSession(session.ID.String()); err != nil {
		t.Errorf("session should be restored: %v", err)
	}
}

func TestMigrateCmdValidation(t *testing.T) {
	testDB := setupTestCLI(t)
	if err := testDB.CreateSet(models.NewSet("squat", 100, 5, 8)); err != nil {
		t.Fatalf("CreateSet failed: %v", err)
	}

	if err := run(t, "migrate", "--from", "sqlite", "--to", "sqlite"); err == nil {
		t.Error("migrating a backend onto itself should fail")
	}
	if err := run(t, "migrate", "--from", "sqlite", "--to", "charm", "--dry-run"); err != nil {
		t.Errorf("dry run failed: %v", err)
	}
	if err := run(t, "migrate", "--from", "postgres", "--to", "sqlite"); err == nil {
		t.Error("unknown source backend should fail")
	}
}

func TestConfigFlagUsesFile(t *testing.T) {
	setupTestCLI(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"backend": "sqlite", "data_dir": "`+dir+`", "target_rpe": 7.5}`), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	resetFlags()
	rootCmd.SetArgs([]string{"--config", path, "log", "squat", "100", "5", "--rpe", "8"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("log with --config failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "lift.db")); err != nil {
		t.Errorf("expected database in configured data dir: %v", err)
	}
}
