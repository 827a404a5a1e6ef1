package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	transactionHD "github.com/MMN3003/bridgeswap/src/transaction/delivery/http"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	watchTrack    bool
	watchInterval int
)

var trackCmd = &cobra.Command{
	Use:   "track <tracker-id>",
	Short: "Look a transaction up by tracker id",
	Long: `Look a transaction up by its TXN-XXXXXX tracker id. Case does not matter.

Examples:
  bridgeswap track TXN-4K9Q2Z
  bridgeswap track txn-4k9q2z --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().BoolVarP(&watchTrack, "watch", "w", false, "Keep polling until the transaction settles")
	trackCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runTrack(cmd *cobra.Command, args []string) error {
	trackerID := strings.TrimSpace(args[0])
	jsonOutput, _ := cmd.Flags().GetBool("json")

	apiClient, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Searching..."
		s.Start()
	}
	res, err := apiClient.Track(cmd.Context(), trackerID)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		return err
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}
	displayTrack(trackerID, res)

	if !watchTrack || res.Transaction == nil {
		return nil
	}

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-ticker.C:
		}
		res, err = apiClient.Track(cmd.Context(), trackerID)
		if err != nil {
			color.Red("Error: %v", err)
			continue
		}
		if res.Transaction == nil {
			continue
		}
		if p, err := apiClient.Progress(cmd.Context(), res.Transaction.ID); err == nil && !p.Completed {
			fmt.Printf("  Step %d/%d  %s  %s\n", p.CurrentStep, p.TotalSteps, color.YellowString(p.Label), p.Countdown)
			continue
		}
		displayTrack(trackerID, res)
		if isSettled(string(res.Transaction.Status)) {
			return nil
		}
	}
}

func displayTrack(trackerID string, res *transactionHD.TrackResponse) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                          TRANSACTION")
	fmt.Println(strings.Repeat("=", 70))

	if res.Transaction == nil {
		fmt.Printf("\n  %s was not found.\n", color.CyanString(strings.ToUpper(trackerID)))
		fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
		return
	}

	tx := res.Transaction
	fmt.Printf("\n  Tracker ID:      %s\n", color.CyanString(tx.TrackerID))
	fmt.Printf("  Status:          %s\n", getColoredStatus(string(tx.Status)))
	fmt.Printf("  From:            %s %s (%s)\n", tx.FromAmount, tx.FromToken.Symbol, tx.FromToken.Network)
	fmt.Printf("  To:              %s %s (%s)\n", tx.ToAmount, tx.ToToken.Symbol, tx.ToToken.Network)
	fmt.Printf("  Created:         %s\n", tx.CreatedAt.Format("2006-01-02 15:04:05"))
	if tx.DepositAddress != nil {
		fmt.Printf("  Deposit Address: %s\n", color.HiBlackString(*tx.DepositAddress))
	}
	if tx.TxHash != nil {
		fmt.Printf("  Tx Hash:         %s\n", color.HiBlackString(*tx.TxHash))
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func isSettled(status string) bool {
	return status == "completed" || status == "failed"
}

func getColoredStatus(status string) string {
	label := strings.ToUpper(status)
	switch status {
	case "completed":
		return color.GreenString(label)
	case "awaiting_payment", "payment_confirmed", "processing", "pending":
		return color.YellowString(label)
	case "failed":
		return color.RedString(label)
	default:
		return label
	}
}
