package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/flux-workspace/internal"
	"github.com/spf13/cobra"
)

var inspectFormat string

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [database-path]",
	Short: "Inspect the rows of a session database",
	Long: `Inspect a workspaceKV database the way flux reads it.

Every row is reported with the session it decodes to, or the reason it is
skipped. Useful after 'flux import' or when a stored session does not show up.

Examples:
  flux inspect                          # Inspect --db or the default database
  flux inspect ./sessions.db            # Inspect a specific database
  flux inspect --format json            # Machine-readable report`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := cfg.DatabasePath
		if len(args) > 0 {
			dbPath = args[0]
		}
		if dbPath == "" {
			paths, err := internal.DetectPaths()
			if err != nil {
				return fmt.Errorf("failed to detect paths: %w", err)
			}
			dbPath = paths.DatabasePath
		}

		db, err := internal.OpenDatabase(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		report, err := inspectDatabase(db)
		if err != nil {
			return err
		}
		report.Path = dbPath

		switch inspectFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "text":
			printReport(cmd.OutOrStdout(), report)
			return nil
		default:
			return fmt.Errorf("unsupported format: %s (supported: text, json)", inspectFormat)
		}
	},
}

// RowReport describes one workspaceKV row
type RowReport struct {
	Key      string `json:"key"`
	Kind     string `json:"kind"` // session, order, other
	Valid    bool   `json:"valid"`
	Title    string `json:"title,omitempty"`
	Messages int    `json:"messages,omitempty"`
	Chapters int    `json:"chapters,omitempty"`
	Error    string `json:"error,omitempty"`
}

// DatabaseReport is the result of inspecting a database
type DatabaseReport struct {
	Path   string      `json:"path"`
	Tables []string    `json:"tables"`
	Order  []string    `json:"order,omitempty"`
	Rows   []RowReport `json:"rows"`
}

func inspectDatabase(db *sql.DB) (*DatabaseReport, error) {
	tables, err := getTables(db)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	report := &DatabaseReport{Tables: tables}

	pairs, err := internal.QueryWorkspaceKV(db, "%")
	if err != nil {
		return nil, &internal.StorageError{Op: "read", Path: "workspaceKV", Err: err}
	}

	normalizer := internal.NewNormalizer()
	for _, pair := range pairs {
		row := RowReport{Key: pair.Key, Kind: "other", Valid: true}
		switch {
		case pair.Key == internal.SessionOrderKey:
			row.Kind = "order"
			order, err := internal.ParseSessionOrder(pair.Value)
			if err != nil {
				row.Valid, row.Error = false, err.Error()
				break
			}
			report.Order = order
			row.Messages = len(order)

		case strings.HasPrefix(pair.Key, internal.SessionKey("")):
			row.Kind = "session"
			raw, err := internal.ParseRawSession(pair.Key, pair.Value)
			if err == nil {
				var session *internal.Session
				session, err = normalizer.NormalizeSession(raw)
				if err == nil {
					row.Title = session.Title
					row.Messages = len(session.Messages)
					row.Chapters = len(session.Chapters)
				}
			}
			if err != nil {
				row.Valid, row.Error = false, err.Error()
			}
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func getTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func printReport(out io.Writer, report *DatabaseReport) {
	fmt.Fprintf(out, "📋 Database: %s\n", report.Path)
	fmt.Fprintf(out, "📊 Tables: %s\n", strings.Join(report.Tables, ", "))
	if len(report.Order) > 0 {
		fmt.Fprintf(out, "🔢 Order: %s\n", strings.Join(report.Order, ", "))
	}
	fmt.Fprintln(out)

	valid := 0
	for _, row := range report.Rows {
		if !row.Valid {
			fmt.Fprintf(out, "  ✗ %s: %s\n", row.Key, row.Error)
			continue
		}
		if row.Kind == "session" {
			valid++
			fmt.Fprintf(out, "  ✓ %s: %q, %d message(s), %d chapter(s)\n", row.Key, row.Title, row.Messages, row.Chapters)
		} else {
			fmt.Fprintf(out, "  • %s (%s)\n", row.Key, row.Kind)
		}
	}
	fmt.Fprintf(out, "\n%d loadable session(s) in %d row(s)\n", valid, len(report.Rows))
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
}
