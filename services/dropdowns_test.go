package services

import "testing"

func TestUOMOptions(t *testing.T) {
	if len(UOMOptions) == 0 || UOMOptions[0] != DefaultUOM {
		t.Fatalf("UOMOptions should start with %q, got %v", DefaultUOM, UOMOptions)
	}
	seen := make(map[string]bool)
	for _, opt := range UOMOptions {
		if opt == "" {
			t.Error("UOMOptions contains empty string")
		}
		if seen[opt] {
			t.Errorf("duplicate UOM option %q", opt)
		}
		seen[opt] = true
	}
}
