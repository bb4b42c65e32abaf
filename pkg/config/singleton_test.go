package config

import (
	"path/filepath"
	"testing"

	"humanlayer/hlyr/pkg/providers"
)

func TestSetConfig_GetConfig(t *testing.T) {
	previous := GetConfig()
	t.Cleanup(func() { SetConfig(previous) })

	cfg := NewDefaultConfig()
	SetConfig(cfg)

	if GetConfig() != cfg {
		t.Error("GetConfig() did not return the stored configuration")
	}
}

func TestReloadConfig(t *testing.T) {
	previous := GetConfig()
	t.Cleanup(func() { SetConfig(previous) })

	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "humanlayer.yml", "activeProvider: qwen\n")

	if err := ReloadConfig(path); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if GetConfig().ActiveProvider != providers.ProviderQwen {
		t.Errorf("ActiveProvider = %q, want qwen", GetConfig().ActiveProvider)
	}

	// An invalid file keeps the previous configuration
	writeFile(t, dir, "humanlayer.yml", "activeProvider: togetherai\n")
	if err := ReloadConfig(path); err == nil {
		t.Fatal("expected reload error")
	}
	if GetConfig().ActiveProvider != providers.ProviderQwen {
		t.Errorf("ActiveProvider = %q after failed reload", GetConfig().ActiveProvider)
	}

	if err := ReloadConfig(filepath.Join(dir, "missing.yml")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
