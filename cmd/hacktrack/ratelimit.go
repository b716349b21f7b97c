package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rateLimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Show the remaining GitHub core quota",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := newClient().CheckRateLimit(cmd.Context())
		if info.Remaining == nil || info.Limit == nil {
			pterm.Warning.Println("Rate limit unknown: GitHub did not answer")
			return nil
		}

		style := pterm.Success
		if *info.Remaining < *info.Limit/10 {
			style = pterm.Warning
		}
		style.Printf("%d of %d requests remaining\n", *info.Remaining, *info.Limit)
		return nil
	},
}
