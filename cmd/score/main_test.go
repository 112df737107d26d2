package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"questionnaire-reader/internal/service"
)

var (
	fixtureCSV    = filepath.Join("..", "..", "internal", "dataset", "testdata", "export.csv")
	fixtureLayout = filepath.Join("..", "..", "internal", "dataset", "testdata", "layout.yaml")
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).RunContext(context.Background(), append([]string{"score"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestRun_WritesScoredCSV(t *testing.T) {
	t.Setenv("LAYOUT_FILE", "")
	dir := t.TempDir()
	out := filepath.Join(dir, "scored.csv")
	html := filepath.Join(dir, "report.html")

	_, stderr, err := runApp(t, "run",
		"--input", fixtureCSV,
		"--layout", fixtureLayout,
		"--output", out,
		"--report", html,
		"--column", "SHS",
		"--summary",
		"--workers", "2",
	)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[0]), "Comp_7,PSQI,SHS") {
		t.Fatalf("unexpected header %q", lines[0])
	}

	page, err := os.ReadFile(html)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(page), "<html") {
		t.Fatalf("report is not html")
	}
	if !strings.Contains(stderr, "column") || !strings.Contains(stderr, "issues") {
		t.Fatalf("expected summary on stderr, got %q", stderr)
	}
}

func TestRun_JSONToStdout(t *testing.T) {
	stdout, _, err := runApp(t, "run", "--input", fixtureCSV, "--layout", fixtureLayout, "--format", "json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout, `"batch_id"`) || !strings.Contains(stdout, `"respondents"`) {
		t.Fatalf("unexpected json output %q", stdout)
	}
}

func TestRun_RejectsUnknownFormat(t *testing.T) {
	if _, _, err := runApp(t, "run", "--input", fixtureCSV, "--format", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestLayout_PrintsDefaults(t *testing.T) {
	t.Setenv("LAYOUT_FILE", "")
	stdout, _, err := runApp(t, "layout")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	for _, want := range []string{"bmi_column: BMI", "prefix: BFI", "offset: 36"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in %q", want, stdout)
		}
	}
}

func TestToken_IssuesVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("REDIS_ADDR", "")

	stdout, _, err := runApp(t, "token", "--client", "lab-a", "--ttl", "5m")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	claims, err := service.NewTokenService("cli-secret", time.Minute, nil).Parse(strings.TrimSpace(stdout))
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.ClientID != "lab-a" {
		t.Fatalf("expected client lab-a, got %s", claims.ClientID)
	}
}

func TestToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, _, err := runApp(t, "token", "--client", "lab-a"); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestTokenRevoke_NeedsRedis(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("REDIS_ADDR", "")
	if _, _, err := runApp(t, "token", "revoke", "--token", "abc"); err == nil {
		t.Fatalf("expected error without REDIS_ADDR")
	}
}
