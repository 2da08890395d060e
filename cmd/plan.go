package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/dates"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/production"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/search"
)

// Output formats of the plan command
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

var (
	planStart     string
	planEnd       string
	planFormat    string
	planFromIndex bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the resolved production plan of a date range",
	Long: `Resolve the production plan of every day between --start and --end and print
one line per day (table), the per-item totals (csv) or the full plans (json).
With --from-index the days are read from the search index instead.`,
	Example: `  bakery plan --start 2025-12-22 --end 2025-12-28
  bakery plan --start 2025-12-01 --end 2025-12-31 --format csv > december.csv`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planStart, "start", "", "first day, YYYY-MM-DD (required)")
	planCmd.Flags().StringVar(&planEnd, "end", "", "last day, YYYY-MM-DD (defaults to --start)")
	planCmd.Flags().StringVar(&planFormat, "format", FormatTable, "output format: table, csv or json")
	planCmd.Flags().BoolVar(&planFromIndex, "from-index", false, "read indexed day summaries from Elasticsearch")
	_ = planCmd.MarkFlagRequired("start")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(planFormat)
	switch format {
	case FormatTable, FormatCSV, FormatJSON:
	default:
		return errors.Errorf("unknown format %q", planFormat)
	}
	end := planEnd
	if end == "" {
		end = planStart
	}

	if planFromIndex {
		return runPlanFromIndex(cmd, format, planStart, end)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	switch format {
	case FormatCSV:
		return a.analytics.ExportCSV(ctx, out, planStart, end)
	case FormatJSON:
		days, err := a.planning.ResolveRange(ctx, planStart, end)
		if err != nil {
			return err
		}
		return writeJSON(out, days)
	}

	days, err := a.planning.ResolveRange(ctx, planStart, end)
	if err != nil {
		return err
	}
	return writePlanTable(out, days)
}

func runPlanFromIndex(cmd *cobra.Command, format, start, end string) error {
	if format == FormatCSV {
		return errors.New("--from-index supports the table and json formats")
	}
	if cfg.Elastic.URL == "" {
		return errors.New("elastic.url is required with --from-index")
	}
	from, err := dates.NormalizeKey(start)
	if err != nil {
		return err
	}
	to, err := dates.NormalizeKey(end)
	if err != nil {
		return err
	}

	client, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		return err
	}
	docs, err := client.SearchDays(cmd.Context(), search.RangeQuery(from, to, cfg.Planning.MaxRangeDays))
	if err != nil {
		return err
	}
	if format == FormatJSON {
		return writeJSON(cmd.OutOrStdout(), docs)
	}
	return writeIndexTable(cmd.OutOrStdout(), docs)
}

// writePlanTable prints one line per day and a totals line
func writePlanTable(w io.Writer, days []models.DayPlan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tWEEKDAY\tSOURCE\tITEMS\tUNITS\tREVENUE\tCOST\tPROFIT\t")

	var all []models.ProductionItem
	for _, day := range days {
		s := production.Summarize(day.Items)
		weekday := ""
		if t, err := dates.ParseDay(day.DateKey); err == nil {
			weekday = dates.WeekdayKey(t)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.0f\t%.2f\t%.2f\t%.2f\t\n",
			day.DisplayDate, weekday, day.Source, s.DistinctItems, s.TotalUnits, s.TotalRevenue, s.TotalCost, s.Profit)
		all = append(all, day.Items...)
	}

	total := production.Summarize(all)
	fmt.Fprintf(tw, "TOTAL\t\t\t%d\t%.0f\t%.2f\t%.2f\t%.2f\t\n",
		total.DistinctItems, total.TotalUnits, total.TotalRevenue, total.TotalCost, total.Profit)
	return tw.Flush()
}

func writeIndexTable(w io.Writer, docs []search.DayDocument) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DATE\tWEEKDAY\tSOURCE\tITEMS\tUNITS\tREVENUE\tPROFIT\tINDEXED AT\t")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.0f\t%.2f\t%.2f\t%s\t\n",
			d.DisplayDate, d.Weekday, d.Source, d.Items, d.TotalUnits, d.TotalRevenue, d.Profit, d.IndexedAt)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "failed to encode output")
}
