package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/callsign/callsign/internal/render"
	"github.com/callsign/callsign/pkg/discover"
)

func newVetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet <dir>",
		Short: "Check every command manifest under a directory",
		Long: `Vet parses and compiles every command manifest (.yaml, .yml, .toml)
under the given directory and prints a verdict per file.

Handler pairing is not checked here; that happens when the application
loads the directory against its handler set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVet(args[0])
		},
	}

	return cmd
}

func runVet(dir string) error {
	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Scanning %s", dir))

	files, err := discover.ReadDir(os.DirFS(dir), ".")
	if err != nil {
		spinner.Fail(fmt.Sprintf("Scan failed: %v", err))
		return err
	}

	if len(files) == 0 {
		spinner.Fail("No manifests found")
		return fmt.Errorf("no manifests under %s", dir)
	}

	spinner.Success(fmt.Sprintf("Scanned %d manifest file(s)", len(files)))

	bad := 0
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		name := ""
		if f.Manifest != nil {
			name = f.Manifest.Name
		}

		status := pterm.Green("ok")
		switch {
		case f.Err != nil:
			status = pterm.Red(f.Err.Error())
			bad++
		case f.Manifest.Deprecated != "":
			status = pterm.Yellow("ok (deprecated)")
		}

		rows = append(rows, []string{f.Path, name, status})
	}

	if err := render.Table(os.Stdout, []string{"File", "Command", "Status"}, rows); err != nil {
		return err
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d manifests failed", bad, len(files))
	}

	fmt.Printf("\n✓ All %d manifests are valid\n", len(files))
	return nil
}
