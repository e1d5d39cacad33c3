package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/policy-compare/internal/summary"
)

var (
	summaryFormat      string
	summaryConcurrency int
)

var summaryCmd = &cobra.Command{
	Use:   "summary <file|url>...",
	Short: "Compare illustration files side by side",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if summaryFormat != "table" && summaryFormat != "json" {
			return eris.Errorf("unknown summary format %q (want table or json)", summaryFormat)
		}

		results, err := processRefs(ctx, args, summaryConcurrency)
		if err != nil {
			return err
		}

		report := summary.Build(results, cfg.Summary.Intervals)
		if summaryFormat == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func printReport(out io.Writer, r summary.Report) {
	if r.IsEmpty() {
		_, _ = fmt.Fprintln(out, "No data available")
		return
	}

	_, _ = fmt.Fprintf(out, "Files: %d\n", r.TotalFiles)
	_, _ = fmt.Fprintf(out, "Companies: %s\n\n", r.CompanyList())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := []string{"COMPANY", "FILE", "TOTAL PREMIUM"}
	for _, y := range r.Intervals {
		header = append(header, "TCV Y"+strconv.Itoa(y))
	}
	header = append(header, "MAX $ VALUE", "BREAKEVEN AGE", "FEATURES")
	_, _ = fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, p := range r.Policies {
		row := []string{displayCompany(p.Company), p.Filename, money(p.TotalPremium)}
		for _, iv := range p.TCVAt {
			row = append(row, money(iv.TCV))
		}
		breakeven := "-"
		if p.BreakevenAge > 0 {
			breakeven = strconv.FormatFloat(p.BreakevenAge, 'f', -1, 64)
		}
		row = append(row, strconv.FormatFloat(p.MaxDollarValue, 'f', 2, 64), breakeven, features(p.Features))
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func displayCompany(c string) string {
	if c == "" {
		return "(failed)"
	}
	return c
}

func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

func features(f summary.Features) string {
	var parts []string
	if f.Premium {
		parts = append(parts, "premium")
	}
	if f.GCV {
		parts = append(parts, "gcv")
	}
	if f.TCV {
		parts = append(parts, "tcv")
	}
	if f.TDB {
		parts = append(parts, "tdb")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func init() {
	summaryCmd.Flags().StringVar(&summaryFormat, "format", "table", "output format: table or json")
	summaryCmd.Flags().IntVar(&summaryConcurrency, "concurrency", 0, "files processed at once (default from config)")
	rootCmd.AddCommand(summaryCmd)
}
