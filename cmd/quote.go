package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	quoteHD "github.com/MMN3003/bridgeswap/src/quote/delivery/http"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	quoteSlippage float64
	quoteFlip     bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <SYMBOL:NETWORK> <SYMBOL:NETWORK>",
	Short: "Price a swap",
	Long: `Ask the API for a quote. Tokens are written SYMBOL:NETWORK.

Examples:
  bridgeswap quote 1.5 ETH:ERC20 USDT:BEP20
  bridgeswap quote 100000 LUIGI:Solana SOL:Solana --slippage 1`,
	Args: cobra.ExactArgs(3),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().Float64Var(&quoteSlippage, "slippage", 0.5, "Slippage tolerance in percent")
	quoteCmd.Flags().BoolVar(&quoteFlip, "flip", false, "Reverse the direction after pricing")
}

func runQuote(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	fromSymbol, fromNetwork, err := parseTokenArg(args[1])
	if err != nil {
		return err
	}
	toSymbol, toNetwork, err := parseTokenArg(args[2])
	if err != nil {
		return err
	}

	apiClient, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	req := quoteHD.CreateQuoteRequestBody{
		FromSymbol:  fromSymbol,
		FromNetwork: fromNetwork,
		ToSymbol:    toSymbol,
		ToNetwork:   toNetwork,
		Amount:      args[0],
		Flip:        quoteFlip,
	}
	if cmd.Flags().Changed("slippage") {
		req.Slippage = &quoteSlippage
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}
	q, err := apiClient.CreateQuote(cmd.Context(), req)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		return err
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(q, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}
	displayQuote(q)
	return nil
}

func parseTokenArg(raw string) (string, string, error) {
	symbol, network, ok := strings.Cut(raw, ":")
	if !ok || symbol == "" || network == "" {
		return "", "", fmt.Errorf("token %q must be written SYMBOL:NETWORK", raw)
	}
	return symbol, network, nil
}

func displayQuote(q *quoteHD.QuoteResponse) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                              QUOTE")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  You send:        %s %s (%s)\n", color.CyanString(q.FromAmount), q.FromSymbol, q.FromNetwork)
	fmt.Printf("  You receive:     %s %s (%s)\n", color.CyanString(q.ToAmount), q.ToSymbol, q.ToNetwork)
	fmt.Printf("  Rate:            1 %s = %g %s\n", q.FromSymbol, q.ExchangeRate, q.ToSymbol)
	fmt.Printf("  Price impact:    %.2f%%\n", q.PriceImpact)
	fmt.Printf("  Fees:            %s %s\n", q.Fees.String(), q.FromSymbol)
	fmt.Printf("  Slippage:        %.2f%%\n", q.Slippage)
	if q.Eligible {
		fmt.Printf("  Eligible:        %s\n", color.GreenString("yes"))
	} else {
		fmt.Printf("  Eligible:        %s\n", color.RedString(q.ValidationError))
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
