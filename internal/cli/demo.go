package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"sqlchat-go/internal/naming"
	"sqlchat-go/internal/version"
)

var (
	demoTableNames = []string{"Employees", " Customers ", "orders!", "#Sales"}
	demoVersions   = []string{"0.2.1", "0.2.0", "1.0.0", "0.1.9", "invalid"}
)

type normalizeRow struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
}

type compatRow struct {
	Version    string `json:"version"`
	Compatible bool   `json:"compatible"`
}

type demoReport struct {
	TableNames    []normalizeRow `json:"table_names"`
	Version       string         `json:"version"`
	VersionTuple  [3]int         `json:"version_tuple"`
	Compatibility []compatRow    `json:"compatibility"`
}

func newDemoCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Show table-name normalization and version compatibility examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := buildDemoReport()
			switch format {
			case "json":
				return renderDemoJSON(cmd.OutOrStdout(), report)
			case "table", "md", "markdown":
				renderDemoTables(cmd.OutOrStdout(), report, format != "table")
				return nil
			default:
				return fmt.Errorf("unknown format %q (expected table, markdown or json)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table|markdown|json)")
	return cmd
}

func buildDemoReport() demoReport {
	major, minor, patch := version.Tuple()
	r := demoReport{
		Version:      version.Get(),
		VersionTuple: [3]int{major, minor, patch},
	}
	for _, name := range demoTableNames {
		r.TableNames = append(r.TableNames, normalizeRow{Input: name, Normalized: naming.NormalizeTableName(name)})
	}
	for _, v := range demoVersions {
		r.Compatibility = append(r.Compatibility, compatRow{Version: v, Compatible: version.IsCompatible(v)})
	}
	return r
}

func renderDemoJSON(w io.Writer, r demoReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func renderDemoTables(w io.Writer, r demoReport, markdown bool) {
	render := func(t table.Writer) {
		if markdown {
			t.RenderMarkdown()
		} else {
			t.Render()
		}
		fmt.Fprintln(w)
	}

	names := table.NewWriter()
	names.SetOutputMirror(w)
	names.SetStyle(table.StyleLight)
	names.SetTitle("Table Name Normalization")
	names.AppendHeader(table.Row{"Input", "Normalized"})
	for _, row := range r.TableNames {
		names.AppendRow(table.Row{strconv.Quote(row.Input), row.Normalized})
	}
	render(names)

	fmt.Fprintf(w, "Current version: %s\n", r.Version)
	fmt.Fprintf(w, "Version tuple: (%d, %d, %d)\n\n", r.VersionTuple[0], r.VersionTuple[1], r.VersionTuple[2])

	compat := table.NewWriter()
	compat.SetOutputMirror(w)
	compat.SetStyle(table.StyleLight)
	compat.SetTitle("Compatibility Check")
	compat.AppendHeader(table.Row{"Version", "Compatible"})
	for _, row := range r.Compatibility {
		mark := "✗"
		if row.Compatible {
			mark = "✓"
		}
		compat.AppendRow(table.Row{row.Version, mark})
	}
	render(compat)
}
