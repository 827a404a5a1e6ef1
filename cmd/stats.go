package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the 24h volume panel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		apiClient, err := newAPIClient(cmd)
		if err != nil {
			return err
		}
		st, err := apiClient.Stats(cmd.Context())
		if err != nil {
			printError(err)
			return err
		}
		if jsonOutput {
			jsonData, _ := json.MarshalIndent(st, "", "  ")
			fmt.Println(string(jsonData))
			return nil
		}

		fmt.Println("\n" + strings.Repeat("=", 50))
		color.Green("                  24H VOLUME")
		fmt.Println(strings.Repeat("=", 50))
		fmt.Printf("\n  Total Volume:    %s\n", color.CyanString(st.TotalVolumeDisplay))
		fmt.Printf("  Total Swaps:     %s\n", st.TotalSwapsDisplay)
		fmt.Printf("  Avg. Swap Size:  %s\n", st.AvgSwapSizeDisplay)
		for _, b := range st.BySymbol {
			fmt.Printf("    %-8s %d swaps  $%s\n", color.YellowString(b.Symbol), b.Swaps, b.USDVolume)
		}
		fmt.Println("\n" + strings.Repeat("=", 50) + "\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
