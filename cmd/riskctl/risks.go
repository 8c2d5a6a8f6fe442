package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"securerisk/internal/models"
	"securerisk/pkg/client"
)

var draft client.RiskDraft

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all risks, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tSCORE\tLEVEL\tSTATUS\tOWNER")
		for _, r := range s.Risks() {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", r.ID, r.Title, r.Score, r.Level, r.Status, r.Owner)
		}
		return tw.Flush()
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a risk",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd.Context())
		if err != nil {
			return err
		}
		created, err := s.CreateRisk(cmd.Context(), draft)
		if err != nil {
			return err
		}
		fmt.Printf("created %s (score %d, %s)\n", created.ID, created.Score, created.Level)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of an existing risk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd.Context())
		if err != nil {
			return err
		}
		var upd client.RiskUpdate
		flags := cmd.Flags()
		if flags.Changed("title") {
			upd.Title = &draft.Title
		}
		if flags.Changed("asset") {
			upd.Asset = &draft.Asset
		}
		if flags.Changed("threat") {
			upd.Threat = &draft.Threat
		}
		if flags.Changed("vulnerability") {
			upd.Vulnerability = &draft.Vulnerability
		}
		if flags.Changed("likelihood") {
			upd.Likelihood = &draft.Likelihood
		}
		if flags.Changed("impact") {
			upd.Impact = &draft.Impact
		}
		if flags.Changed("owner") {
			upd.Owner = &draft.Owner
		}
		if flags.Changed("status") {
			upd.Status = &draft.Status
		}
		if flags.Changed("plan") {
			upd.TreatmentPlan = &draft.TreatmentPlan
		}
		updated, err := s.UpdateRisk(cmd.Context(), args[0], upd)
		if err != nil {
			return err
		}
		fmt.Printf("updated %s (score %d, %s)\n", updated.ID, updated.Score, updated.Level)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a risk (Admin only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd.Context())
		if err != nil {
			return err
		}
		if err := s.DeleteRisk(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("deleted", args[0])
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show register statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session(cmd.Context())
		if err != nil {
			return err
		}
		stats, err := s.Stats(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	},
}

func init() {
	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		c.Flags().StringVar(&draft.Title, "title", "", "risk title")
		c.Flags().StringVar(&draft.Asset, "asset", "", "asset name")
		c.Flags().StringVar(&draft.Threat, "threat", "", "threat description")
		c.Flags().StringVar(&draft.Vulnerability, "vulnerability", "", "vulnerability description")
		c.Flags().IntVar(&draft.Likelihood, "likelihood", 1, "likelihood 1-5")
		c.Flags().IntVar(&draft.Impact, "impact", 1, "impact 1-5")
		c.Flags().StringVar(&draft.Owner, "owner", "", "risk owner")
		c.Flags().StringVar((*string)(&draft.Status), "status", string(models.StatusOpen), "status")
		c.Flags().StringVar(&draft.TreatmentPlan, "plan", "", "treatment plan")
	}
	_ = createCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(listCmd, createCmd, updateCmd, deleteCmd, statsCmd)
}
