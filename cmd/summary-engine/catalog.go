// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/summary-engine/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse and export stored summaries",
	Long: `Catalog manages the local SQLite database of generated summaries.
Use subcommands to list entries, search their prose, show a stored
summary, or export the whole catalog.`,
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored summaries, newest first",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background())
	if err != nil {
		return err
	}
	return printEntries(cmd, entries)
}

// --- search subcommand ---

var catalogSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over stored summary prose",
	Long: `Search runs an FTS5 full-text query over summary titles, key points,
section summaries, discussion, and figure narratives.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogSearch,
}

func runCatalogSearch(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}
	return printEntries(cmd, entries)
}

// --- show subcommand ---

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one stored summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	sum, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json", "":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	case "yaml":
		data, err := yaml.Marshal(sum)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole catalog to YAML or JSON",
	RunE:  runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	store, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	dir := catalogConfigFromFlags(cmd).CatalogDir
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml", "":
		if err := store.ExportYAML(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.yaml\n", dir)
	case "json":
		if err := store.ExportJSON(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/export.json\n", dir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

// --- shared helpers ---

func openCatalog(cmd *cobra.Command) (*catalog.Store, error) {
	return catalog.NewStore(catalogConfigFromFlags(cmd))
}

func printEntries(cmd *cobra.Command, entries []catalog.Entry) error {
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No summaries found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-45s  %-6s  %-4s  %-20s  %s\n",
		"ID", "Year", "Lang", "Model", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, e := range entries {
		title := e.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		model := e.Model
		if len(model) > 20 {
			model = model[:17] + "..."
		}
		id := e.ID
		if len(id) > 45 {
			id = id[:42] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-45s  %-6s  %-4s  %-20s  %s\n",
			id, e.Year, e.Language, model, title)
	}

	fmt.Fprintf(os.Stdout, "\n%d summaries\n", len(entries))
	return nil
}

func init() {
	catalogCmd.PersistentFlags().String("catalog-dir", "", "catalog directory (default: ./catalog)")

	catalogListCmd.Flags().Bool("json", false, "output entries as JSON")

	catalogSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogSearchCmd.Flags().Bool("json", false, "output entries as JSON")

	catalogShowCmd.Flags().String("format", "json", "output format: json or yaml")

	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
