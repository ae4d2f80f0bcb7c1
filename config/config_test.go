package config

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestBind_Defaults(t *testing.T) {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	cfg := Bind(cmd)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.ProformaTaxExclusive {
		t.Error("ProformaTaxExclusive should default to false")
	}
	if cfg.DefaultCurrency != "INR" {
		t.Errorf("DefaultCurrency = %q, want INR", cfg.DefaultCurrency)
	}
}

func TestBind_Flags(t *testing.T) {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	cfg := Bind(cmd)
	cmd.SetArgs([]string{"--geo-dataset", "/tmp/geo.json", "--proforma-tax-exclusive", "--log-level", "debug"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if cfg.GeoDatasetPath != "/tmp/geo.json" {
		t.Errorf("GeoDatasetPath = %q", cfg.GeoDatasetPath)
	}
	if !cfg.ProformaTaxExclusive {
		t.Error("expected ProformaTaxExclusive to be true")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestBind_EnvFallback(t *testing.T) {
	t.Setenv("CRM_PROFORMA_TAX_EXCLUSIVE", "true")
	t.Setenv("CRM_COMPANY_NAME", "Env Co")

	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	cfg := Bind(cmd)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !cfg.ProformaTaxExclusive {
		t.Error("expected env to enable ProformaTaxExclusive")
	}
	if cfg.CompanyName != "Env Co" {
		t.Errorf("CompanyName = %q, want Env Co", cfg.CompanyName)
	}
}
