package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/dynagen/compiler/gen"
	"github.com/syssam/dynagen/compiler/gen/ddb"
	"github.com/syssam/dynagen/compiler/load"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dynagen",
		Short: "dynagen - typed DynamoDB data-access layers from entity schemas",
		Long: `dynagen compiles declarative entity schemas into a strongly-typed
DynamoDB data-access layer: entity structs, key builders, validators,
and per-entity repositories on top of the AWS SDK for Go v2.`,
	}

	rootCmd.AddCommand(generateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var (
		schemaPath string
		tablePath  string
		outDir     string
		pkgPath    string
		watch      bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the data-access layer from entity schemas",
		Long: `Generate resolves every schema in --schema against the optional table
metadata in --table and writes the generated packages under --out.
Without table metadata, repositories and the client wrapper are
suppressed and only the entity layer is generated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runGenerate(schemaPath, tablePath, outDir, pkgPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %s\n", outDir)
			if !watch {
				return nil
			}
			return watchAndRegenerate(cmd.Context(), cmd, schemaPath, tablePath, outDir, pkgPath)
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", ".", "schema file or directory")
	cmd.Flags().StringVarP(&tablePath, "table", "t", "", "table metadata file")
	cmd.Flags().StringVarP(&outDir, "out", "o", "./gen", "output directory")
	cmd.Flags().StringVarP(&pkgPath, "package", "p", "", "import path of the generated base package")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and regenerate when schemas change")
	_ = cmd.MarkFlagRequired("package")
	return cmd
}

func runGenerate(schemaPath, tablePath, outDir, pkgPath string) error {
	schemas, err := load.Schemas(schemaPath)
	if err != nil {
		return err
	}
	table, err := load.TableMetadata(tablePath)
	if err != nil {
		return err
	}
	graph, err := gen.NewGraph(&gen.Config{Package: pkgPath, Target: outDir}, schemas, table)
	if err != nil {
		return err
	}
	return ddb.Generate(graph)
}

// watchAndRegenerate blocks watching the schema inputs and reruns generation
// on changes. Generation failures are reported but keep the watch alive; a
// cancelled context ends it cleanly.
func watchAndRegenerate(ctx context.Context, cmd *cobra.Command, schemaPath, tablePath, outDir, pkgPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, p := range watchDirs(schemaPath, tablePath) {
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), "watching for schema changes")

	// Editors fire bursts of events per save; a short debounce window
	// collapses each burst into one regeneration.
	var debounce <-chan time.Time
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !schemaEvent(ev) {
				continue
			}
			debounce = time.After(200 * time.Millisecond)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "watch:", werr)
		case <-debounce:
			debounce = nil
			if err := runGenerate(schemaPath, tablePath, outDir, pkgPath); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "regenerated %s\n", outDir)
		case <-ctx.Done():
			return nil
		}
	}
}

// watchDirs resolves the directories to watch: the schema directory (or the
// parent of a schema file) and the parent of the table metadata file.
func watchDirs(schemaPath, tablePath string) []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(p string) {
		if p == "" {
			return
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			p = filepath.Dir(p)
		}
		if !seen[p] {
			seen[p] = true
			dirs = append(dirs, p)
		}
	}
	add(schemaPath)
	add(tablePath)
	return dirs
}

func schemaEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
