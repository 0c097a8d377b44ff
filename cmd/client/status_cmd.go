package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/client/jobmon"
	"github.com/lorekeep/lorekeep/internal/wikisdk"
)

var (
	statusActive = color.New(color.FgHiYellow).SprintFunc()
	statusIdle   = color.New(color.FgHiGreen).SprintFunc()
	statusWarn   = color.New(color.FgHiRed, color.Bold).SprintFunc()
)

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

func newStatusCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the server's background job queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := currentConfig()
			if err != nil {
				return err
			}

			sdk, err := wikisdk.New(&wikisdk.Config{BaseURL: cfg.ServerURL, Token: cfg.Token})
			if err != nil {
				return err
			}
			defer sdk.Close()

			if !follow {
				snap, err := sdk.Jobs.Poll(cmd.Context())
				if err != nil {
					return err
				}
				printSnapshot(snap, false)
				return nil
			}
			return followStatus(cmd, sdk)
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming updates until the queues go idle")
	return cmd
}

// followStatus keeps a live subscription open, falling back to polling when
// the push feed drops. It returns once every queue has gone idle.
func followStatus(cmd *cobra.Command, sdk *wikisdk.WikiSDK) error {
	done := make(chan struct{})

	mon := jobmon.New(jobmon.SDKFeed(sdk.Jobs), jobmon.WithOnUpdate(func(u jobmon.Update) {
		switch {
		case u.Done:
			close(done)
		case u.Snapshot != nil:
			printSnapshot(u.Snapshot, u.Disconnected)
		case u.Disconnected:
			fmt.Println(statusWarn("live updates lost, polling instead"))
		}
	}))
	mon.Start(cmd.Context())
	defer mon.Stop()

	select {
	case <-cmd.Context().Done():
		return nil
	case <-done:
		fmt.Println(statusIdle("all queues idle"))
		return nil
	}
}

func printSnapshot(snap *wikisdk.JobStatusSnapshot, degraded bool) {
	for _, q := range snap.JobQueues {
		state := statusIdle("idle")
		if q.IsActive {
			state = statusActive(fmt.Sprintf("%d of %d remaining", q.JobsRemaining, q.HighWaterMark))
		}
		suffix := ""
		if degraded {
			suffix = " " + statusWarn("(polled)")
		}
		fmt.Printf("%-12s %s%s\n", q.Name, state, suffix)
	}
}
