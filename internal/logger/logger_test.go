package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/midgard-view/internal/config"
)

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
	}{
		{level: "error", expected: []string{"error"}},
		{level: "warn", expected: []string{"warn", "error"}},
		{level: "info", expected: []string{"info", "warn", "error"}},
		{level: "debug", expected: []string{"debug", "info", "warn", "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			rc := DefaultRotateConfig(logFile)
			rc.Compress = false

			log := New(Options{Level: tt.level, File: rc})
			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message")
			_ = log.Sync()

			got := readLevels(t, logFile)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected levels %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("entry %d: expected level %s, got %s", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func readLevels(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log file: %v", err)
	}
	defer f.Close()

	var levels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry struct {
			Level string `json:"level"`
		}
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q", sc.Text())
		}
		levels = append(levels, entry.Level)
	}
	return levels
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromConfig(t *testing.T) {
	opts := FromConfig(config.LoggingConfig{Level: "debug"})
	if !opts.Console {
		t.Error("expected console output")
	}
	if opts.File.Path != "" {
		t.Errorf("expected no file output, got %s", opts.File.Path)
	}

	opts = FromConfig(config.LoggingConfig{Level: "warn", LogFile: "/tmp/view.log"})
	if opts.File != DefaultRotateConfig("/tmp/view.log") {
		t.Errorf("unexpected rotate config: %+v", opts.File)
	}
}

func TestNewWithoutSinks(t *testing.T) {
	log := New(Options{Level: "debug"})
	if log.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected a no-op logger when no sink is configured")
	}
}

func TestNamedUsesGlobal(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")
	prev := Log
	defer func() { Log = prev }()

	Log = New(Options{Level: "info", File: DefaultRotateConfig(logFile)})
	Named("camera").Info("recomputed", zap.Uint64("revision", 1))
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", data)
	}
	if entry["logger"] != "camera" {
		t.Errorf("expected logger name camera, got %v", entry["logger"])
	}
	if entry["revision"] != float64(1) {
		t.Errorf("expected revision field 1, got %v", entry["revision"])
	}
}

func TestDefaultRotateConfig(t *testing.T) {
	cfg := DefaultRotateConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
