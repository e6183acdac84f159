package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[server]
bind = "127.0.0.1:0"
base_url = "http://127.0.0.1:8320"

[llm]
api_key = "test-key"
`, filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func writeRecordFile(t *testing.T, message string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "record.toml")
	content := fmt.Sprintf(`template = "contactForm"
password = "secret"

[fields]
name = "Ada Lovelace"
email = "ada@example.com"
phone = "+15551234567"
subject = "Hello"
message = %q
`, message)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCommandWritesImage(t *testing.T) {
	configPath := writeTestConfig(t)
	recordPath := writeRecordFile(t, "Looking forward to it.")
	outPath := filepath.Join(t.TempDir(), "qr.png")

	output, err := runCommand(t,
		"--config", configPath,
		"generate", "--input", recordPath, "--out", outPath)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, output)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) == 0 || !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG (%d bytes)", len(data))
	}
	if !strings.Contains(output, "View URL: http://127.0.0.1:8320/view?data=") {
		t.Fatalf("output = %q", output)
	}
}

func TestGenerateThenDecodeRoundTrip(t *testing.T) {
	configPath := writeTestConfig(t)
	recordPath := writeRecordFile(t, "Looking forward to it.")
	outPath := filepath.Join(t.TempDir(), "qr.png")

	output, err := runCommand(t,
		"--config", configPath,
		"generate", "--input", recordPath, "--out", outPath)
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, output)
	}

	var viewURL string
	for _, line := range strings.Split(output, "\n") {
		if rest, ok := strings.CutPrefix(line, "View URL: "); ok {
			viewURL = rest
		}
	}
	if viewURL == "" {
		t.Fatalf("no view URL in output %q", output)
	}

	if _, err := runCommand(t, "--config", configPath, "decode", viewURL); err == nil {
		t.Fatal("decode without password should fail")
	}

	decoded, err := runCommand(t, "--config", configPath, "decode", viewURL, "--password", "secret")
	if err != nil {
		t.Fatalf("decode: %v\n%s", err, decoded)
	}
	if !strings.Contains(decoded, "Name: Ada Lovelace") {
		t.Fatalf("decoded = %q", decoded)
	}
	if strings.Contains(decoded, "Password:") {
		t.Fatalf("password leaked: %q", decoded)
	}
}

func TestGenerateCommandRejectsInvalidRecord(t *testing.T) {
	configPath := writeTestConfig(t)
	recordPath := filepath.Join(t.TempDir(), "record.toml")
	content := `template = "contactForm"
password = "short"

[fields]
name = "Ada"
`
	if err := os.WriteFile(recordPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write record: %v", err)
	}

	_, err := runCommand(t,
		"--config", configPath,
		"generate", "--input", recordPath, "--out", filepath.Join(t.TempDir(), "qr.png"))
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestHistoryListAfterGenerate(t *testing.T) {
	configPath := writeTestConfig(t)
	recordPath := writeRecordFile(t, "Looking forward to it.")
	outPath := filepath.Join(t.TempDir(), "qr.png")

	if output, err := runCommand(t,
		"--config", configPath,
		"generate", "--input", recordPath, "--out", outPath); err != nil {
		t.Fatalf("generate: %v\n%s", err, output)
	}

	output, err := runCommand(t, "--config", configPath, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Ada Lovelace") {
		t.Fatalf("history output = %q", output)
	}

	output, err = runCommand(t, "--config", configPath, "history", "clear")
	if err != nil {
		t.Fatalf("history clear: %v\n%s", err, output)
	}

	output, err = runCommand(t, "--config", configPath, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "History is empty.") {
		t.Fatalf("history output after clear = %q", output)
	}
}

func TestTemplatesCommand(t *testing.T) {
	output, err := runCommand(t, "templates")
	if err != nil {
		t.Fatalf("templates: %v\n%s", err, output)
	}
	for _, want := range []string{"contactForm", "studentBio", "collegeAdmission"} {
		if !strings.Contains(output, want) {
			t.Fatalf("templates output missing %s:\n%s", want, output)
		}
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, output)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "[server]") {
		t.Fatalf("sample config missing server section:\n%s", data)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("config init should refuse to overwrite")
	}
}

func TestExtractData(t *testing.T) {
	if got := extractData("http://127.0.0.1:8320/view?data=SGVsbG8"); got != "SGVsbG8" {
		t.Fatalf("extractData(url) = %q", got)
	}
	if got := extractData("  SGVsbG8 "); got != "SGVsbG8" {
		t.Fatalf("extractData(raw) = %q", got)
	}
}
