package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <asset> [context]",
	Short: "Ask the AI provider for threats and vulnerabilities",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd.Context())
		if err != nil {
			return err
		}
		assetContext := ""
		if len(args) > 1 {
			assetContext = args[1]
		}
		out, err := s.Suggest(cmd.Context(), args[0], assetContext)
		if err != nil {
			return err
		}
		fmt.Println("Threats:")
		for _, t := range out.Threats {
			fmt.Println("  -", t)
		}
		fmt.Println("Vulnerabilities:")
		for _, v := range out.Vulnerabilities {
			fmt.Println("  -", v)
		}
		return nil
	},
}

var treatmentCmd = &cobra.Command{
	Use:   "treatment <title> <threat> <vulnerability>",
	Short: "Ask the AI provider for a treatment plan",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd.Context())
		if err != nil {
			return err
		}
		plan, err := s.TreatmentPlan(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Println(plan)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd, treatmentCmd)
}
