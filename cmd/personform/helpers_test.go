package main

import (
	"os"
	"testing"
)

func writeValues(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write values: %v", err)
	}
}
