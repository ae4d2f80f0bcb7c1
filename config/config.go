// Package config binds service settings to command-line flags with CRM_*
// environment fallbacks.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

const (
	defaultCompanyName = "Acme CRM Pvt. Ltd."
	defaultCurrency    = "INR"
	defaultLogLevel    = "info"
)

// Config captures runtime configuration.
type Config struct {
	// GeoDatasetPath overrides the embedded geography dataset when set.
	GeoDatasetPath string
	LogLevel       string
	// ProformaTaxExclusive leaves tax out of the proforma grand total.
	ProformaTaxExclusive bool
	CompanyName          string
	CompanyAddress       string
	CompanyEmail         string
	DefaultCurrency      string
}

// Bind registers persistent flags on cmd and returns the config they fill.
// Values are populated once cmd parses its flags.
func Bind(cmd *cobra.Command) *Config {
	cfg := &Config{}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.GeoDatasetPath, "geo-dataset", env("CRM_GEO_DATASET", ""), "path to a geography dataset JSON file")
	flags.StringVar(&cfg.LogLevel, "log-level", env("CRM_LOG_LEVEL", defaultLogLevel), "log level (debug, info, warn, error)")
	flags.BoolVar(&cfg.ProformaTaxExclusive, "proforma-tax-exclusive", envBool("CRM_PROFORMA_TAX_EXCLUSIVE", false), "exclude tax from proforma grand totals")
	flags.StringVar(&cfg.CompanyName, "company-name", env("CRM_COMPANY_NAME", defaultCompanyName), "company name printed on documents")
	flags.StringVar(&cfg.CompanyAddress, "company-address", env("CRM_COMPANY_ADDRESS", ""), "company address printed on documents")
	flags.StringVar(&cfg.CompanyEmail, "company-email", env("CRM_COMPANY_EMAIL", ""), "company email printed on documents")
	flags.StringVar(&cfg.DefaultCurrency, "default-currency", env("CRM_DEFAULT_CURRENCY", defaultCurrency), "currency for new documents (INR, USD, EUR)")
	return cfg
}

// Default returns the configuration used when no flags are parsed.
func Default() *Config {
	return &Config{
		LogLevel:        defaultLogLevel,
		CompanyName:     defaultCompanyName,
		DefaultCurrency: defaultCurrency,
	}
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
