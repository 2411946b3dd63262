// cmd/tools/instrument-tool/commands.go
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"clinical-score-workers/internal/instruments"
	"clinical-score-workers/internal/scoring"
	"clinical-score-workers/pkg/registry"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a registry file against the schema and the scoring rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if registryPath == "" {
				return errors.New("--path is required for validate")
			}
			data, err := os.ReadFile(registryPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := registry.Validate(data); err != nil {
				var schemaErr *registry.SchemaError
				if errors.As(err, &schemaErr) {
					for _, v := range schemaErr.Violations {
						fmt.Fprintf(out, "  schema: %s\n", v)
					}
				}
				return fmt.Errorf("registry validation failed: %w", err)
			}

			reg, err := registry.Parse(data)
			if err != nil {
				return err
			}
			catalog, err := instruments.FromRegistry(reg)
			if err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}

			fmt.Fprintf(out, "Registry validation passed: %d instruments (version %s)\n",
				catalog.Len(), catalog.Version())
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List instruments with their factor count and score range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := instruments.Open(registryPath)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tFACTORS\tMAX")
			for _, e := range catalog.List() {
				def, _ := catalog.Definition(e.ID())
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
					e.ID(), e.Name(), def.Category, len(def.Factors), e.MaxScore())
			}
			return w.Flush()
		},
	}
}

func newScoreCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score <instrument> [factor...]",
		Short: "Score a set of factors and print the matching tier",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := instruments.Open(registryPath)
			if err != nil {
				return err
			}
			evaluator, err := catalog.Get(args[0])
			if err != nil {
				return err
			}

			ids := make([]scoring.FactorID, 0, len(args)-1)
			for _, a := range args[1:] {
				ids = append(ids, scoring.FactorID(a))
			}
			sel, err := evaluator.Select(ids...)
			if err != nil {
				return err
			}
			result := evaluator.Evaluate(sel)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprintf(out, "%s: %d/%d\n", evaluator.Name(), result.Score, result.MaxScore)
			fmt.Fprintf(out, "tier: %s\n", result.Tier.Label)
			fmt.Fprintf(out, "recommendation: %s\n", result.Tier.Recommendation)
			if result.Tier.RiskPercent != nil {
				fmt.Fprintf(out, "risk: %.2f%%\n", *result.Tier.RiskPercent)
			}
			for _, c := range result.Tier.Considerations {
				fmt.Fprintf(out, "  - %s\n", c)
			}
			if dropped := droppedByGroup(ids, sel); len(dropped) > 0 {
				fmt.Fprintf(out, "note: replaced by a later group member: %s\n", strings.Join(dropped, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in catalog as a registry file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := instruments.BuiltinRegistry()
			if outPath == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func droppedByGroup(requested []scoring.FactorID, sel scoring.Selection) []string {
	var dropped []string
	seen := map[scoring.FactorID]bool{}
	for _, id := range requested {
		if !sel.IsSelected(id) && !seen[id] {
			dropped = append(dropped, string(id))
		}
		seen[id] = true
	}
	return dropped
}
