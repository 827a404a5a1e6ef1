package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bridgeswap",
	Short: "Cross-chain swap quotes, simulated settlement and transaction tracking",
	Long: `bridgeswap serves the swap API and ships a small client for it.

Examples:
  bridgeswap serve
  bridgeswap tokens --network ERC20
  bridgeswap quote 1.5 ETH:ERC20 USDT:BEP20
  bridgeswap track TXN-4K9Q2Z
  bridgeswap stats`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "", "bridgeswap API base URL (overrides BRIDGESWAP_API_URL)")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
