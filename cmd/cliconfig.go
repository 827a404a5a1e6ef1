package cmd

import (
	"strings"

	"github.com/MMN3003/bridgeswap/src/Infrastructure/bridgeswap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cliConfig is what the client commands need; serve reads src/config instead.
type cliConfig struct {
	APIURL string
}

// loadCLIConfig reads ~/.bridgeswap.yaml, BRIDGESWAP_* env vars and the
// --api-url flag, later sources winning.
func loadCLIConfig(cmd *cobra.Command) cliConfig {
	v := viper.New()
	v.SetConfigName(".bridgeswap")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetDefault("api_url", "http://localhost:8080")

	v.SetEnvPrefix("BRIDGESWAP")
	v.AutomaticEnv()

	// Read config file (optional)
	_ = v.ReadInConfig()

	if f := cmd.Flags().Lookup("api-url"); f != nil {
		_ = v.BindPFlag("api_url", f)
	}
	return cliConfig{APIURL: strings.TrimSpace(v.GetString("api_url"))}
}

func newAPIClient(cmd *cobra.Command) (*bridgeswap.Client, error) {
	cfg := loadCLIConfig(cmd)
	return bridgeswap.NewClient(cfg.APIURL)
}
