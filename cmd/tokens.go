package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	tokenHD "github.com/MMN3003/bridgeswap/src/token/delivery/http"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	filterNetwork string
	filterSymbol  string
)

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"list-tokens", "ls"},
	Short:   "List the token catalog",
	Long: `List every token the API can quote, grouped by network.

Examples:
  bridgeswap tokens
  bridgeswap tokens --network Solana
  bridgeswap tokens --symbol USDT`,
	Args: cobra.NoArgs,
	RunE: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterNetwork, "network", "", "Filter by network")
	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	apiClient, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching tokens..."
		s.Start()
	}
	tokens, err := apiClient.ListTokens(cmd.Context())
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		return err
	}

	filtered := filterTokens(tokens, filterNetwork, filterSymbol)
	if jsonOutput {
		jsonData, _ := json.MarshalIndent(filtered, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}
	displayTokens(filtered)
	return nil
}

func filterTokens(tokens []tokenHD.TokenResponse, network, symbol string) []tokenHD.TokenResponse {
	var out []tokenHD.TokenResponse
	for _, t := range tokens {
		if network != "" && !strings.EqualFold(t.Network, network) {
			continue
		}
		if symbol != "" && !strings.Contains(strings.ToUpper(t.Symbol), strings.ToUpper(symbol)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func displayTokens(tokens []tokenHD.TokenResponse) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	color.Green("                                TOKENS")
	fmt.Println(strings.Repeat("=", 80))

	byNetwork := make(map[string][]tokenHD.TokenResponse)
	for _, t := range tokens {
		byNetwork[t.Network] = append(byNetwork[t.Network], t)
	}
	networks := make([]string, 0, len(byNetwork))
	for n := range byNetwork {
		networks = append(networks, n)
	}
	sort.Strings(networks)

	for _, n := range networks {
		color.Cyan("\n%s", n)
		fmt.Println(strings.Repeat("-", 80))
		for _, t := range byNetwork[n] {
			minimum := "-"
			if t.MinimumSwap != nil {
				minimum = *t.MinimumSwap
			}
			fmt.Printf("  %-10s  %2d decimals  min %-10s %s\n",
				color.YellowString(t.Symbol),
				t.Decimals,
				minimum,
				color.HiBlackString(t.Name))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Printf("\nTotal: %d tokens across %d networks\n\n", len(tokens), len(networks))
}
