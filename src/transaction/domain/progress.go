package domain

import "time"

type Step struct {
	ID          int           `json:"id"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Duration    time.Duration `json:"-"`
}

var Steps = []Step{
	{ID: 1, Label: "Payment Received", Description: "Your payment has been confirmed on the blockchain", Duration: 45 * time.Second},
	{ID: 2, Label: "Finding Best Route", Description: "Analyzing liquidity pools for optimal exchange rate", Duration: 75 * time.Second},
	{ID: 3, Label: "Executing Swap", Description: "Processing your token exchange across networks", Duration: 120 * time.Second},
	{ID: 4, Label: "Sending Tokens", Description: "Transferring tokens to your destination wallet", Duration: 60 * time.Second},
}

const (
	// CompletionDelay elapses after the last step before the run completes.
	CompletionDelay = 2 * time.Second
	// CountdownStart is the display countdown; it is independent of the steps.
	CountdownStart = 300 * time.Second
)

type Progress struct {
	CurrentStep int           `json:"current_step"`
	Step        Step          `json:"step"`
	Elapsed     time.Duration `json:"elapsed"`
	Remaining   time.Duration `json:"remaining"`
	Completed   bool          `json:"completed"`
}

// StepDeadlines returns the cumulative offset at which each step's timer fires.
func StepDeadlines() []time.Duration {
	out := make([]time.Duration, len(Steps))
	var sum time.Duration
	for i, s := range Steps {
		sum += s.Duration
		out[i] = sum
	}
	return out
}

// CompletionAfter is the offset of the completion transition.
func CompletionAfter() time.Duration {
	d := StepDeadlines()
	return d[len(d)-1] + CompletionDelay
}

// ProgressAt is a pure function of elapsed run time. A step's timer sets the
// current step to that step's id when it fires, so the indicator starts at
// step 1 and reaches the last step when the last timer fires.
func ProgressAt(elapsed time.Duration) Progress {
	if elapsed < 0 {
		elapsed = 0
	}
	current := 1
	for i, deadline := range StepDeadlines() {
		if elapsed >= deadline {
			current = Steps[i].ID
		}
	}
	remaining := CountdownStart - elapsed.Truncate(time.Second)
	if remaining < 0 {
		remaining = 0
	}
	return Progress{
		CurrentStep: current,
		Step:        Steps[current-1],
		Elapsed:     elapsed,
		Remaining:   remaining,
		Completed:   elapsed >= CompletionAfter(),
	}
}
