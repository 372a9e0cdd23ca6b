package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/flux-workspace/internal"
	"github.com/iksnae/flux-workspace/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat  string
	exportOutDir  string
	exportSession string
	exportChapter int
	exportStdout  bool
	exportRender  bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export sessions to various formats (jsonl, md, yaml, json).

You can export every session or a single one by ID. With --chapter only the
messages from that chapter's checkpoint onwards are exported.
Use 'flux sessions' to see available session IDs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}
		if md, ok := exporter.(*export.MarkdownExporter); ok {
			md.Render = exportRender
		}
		if cmd.Flags().Changed("chapter") && exportSession == "" {
			return fmt.Errorf("--chapter requires --session")
		}

		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		sessions := reg.Sessions()
		if exportSession != "" {
			session, ok := reg.Lookup(exportSession)
			if !ok {
				return fmt.Errorf("session not found: %s (use 'flux sessions' to see available sessions)", exportSession)
			}
			if cmd.Flags().Changed("chapter") {
				ch, ok := session.Chapter(exportChapter)
				if !ok {
					return fmt.Errorf("session %s has no chapter %d", session.ID, exportChapter)
				}
				session = export.Viewport(session, ch.StartIndex)
			}
			sessions = []*internal.Session{session}
		}

		if exportStdout {
			for _, session := range sessions {
				if err := exporter.Export(session, cmd.OutOrStdout()); err != nil {
					return &internal.ExportError{Format: exportFormat, Path: "stdout", Err: err}
				}
			}
			return nil
		}

		// Ensure output directory exists
		if err := os.MkdirAll(exportOutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		written := 0
		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Exporting %d session(s) to %s", len(sessions), exportOutDir), func() error {
			for _, session := range sessions {
				path := filepath.Join(exportOutDir, fmt.Sprintf("session_%s.%s", session.ID, exporter.Extension()))
				if err := exportFile(exporter, session, path); err != nil {
					internal.LogError("%v", err)
					continue
				}
				written++
			}
			return nil
		})
		if err != nil {
			return err
		}
		if written < len(sessions) {
			return fmt.Errorf("exported %d of %d session(s)", written, len(sessions))
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d session(s) exported to %s", written, exportOutDir))
		return nil
	},
}

func exportFile(exporter export.Exporter, session *internal.Session, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := exporter.Export(session, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVarP(&exportSession, "session", "s", "", "Export a specific session by ID")
	exportCmd.Flags().IntVarP(&exportChapter, "chapter", "c", 0, "Export from this chapter's checkpoint onwards (requires --session)")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write to standard output instead of files")
	exportCmd.Flags().BoolVar(&exportRender, "render", false, "Render Markdown with glamour (md format only)")
}
