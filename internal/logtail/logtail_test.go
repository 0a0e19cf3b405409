package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launcher.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}
	return path
}

func TestRead(t *testing.T) {
	var content strings.Builder
	var all []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		all = append(all, line)
	}
	logPath := writeLog(t, content.String())

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "zero", maxLines: 0, expected: nil},
		{name: "last 3", maxLines: 3, expected: all[7:]},
		{name: "exactly all", maxLines: 10, expected: all},
		{name: "more than available", maxLines: 50, expected: all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if lines != nil {
		t.Fatalf("Read() = %v, want nil", lines)
	}
}

func TestRead_EmptyAndUnterminated(t *testing.T) {
	lines, err := Read(writeLog(t, ""), 5)
	if err != nil || lines != nil {
		t.Fatalf("Read(empty) = %v, %v", lines, err)
	}

	lines, err = Read(writeLog(t, "a\r\nb\r\nc"), 2)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"b", "c"}) {
		t.Fatalf("Read() = %q, want [b c]", lines)
	}
}

func TestRead_SpansBlocks(t *testing.T) {
	var content strings.Builder
	for i := 0; i < 5000; i++ {
		fmt.Fprintf(&content, "time=2026-01-01T00:00:00Z level=INFO msg=\"line %04d\"\n", i)
	}
	if content.Len() < 3*blockSize {
		t.Fatalf("test content too small: %d bytes", content.Len())
	}
	lines, err := Read(writeLog(t, content.String()), 1000)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(lines) != 1000 {
		t.Fatalf("len(lines) = %d, want 1000", len(lines))
	}
	if !strings.Contains(lines[0], "line 4000") || !strings.Contains(lines[999], "line 4999") {
		t.Fatalf("unexpected window: first=%q last=%q", lines[0], lines[999])
	}
}
