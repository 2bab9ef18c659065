package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/callsign/callsign/pkg/discover"
	"github.com/callsign/callsign/pkg/help"
)

func newDocsCmd() *cobra.Command {
	var (
		outPath string
		openDoc bool
	)

	cmd := &cobra.Command{
		Use:   "docs <dir>",
		Short: "Generate a Markdown command reference from manifests",
		Long: `Docs renders the detailed help of every command manifest under the
given directory into a single Markdown document.

The document is written to stdout unless --out is given. With --open
the written file is opened with the system default handler.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if openDoc && outPath == "" {
				return fmt.Errorf("--open requires --out")
			}

			doc, err := renderDocs(args[0])
			if err != nil {
				return err
			}

			if outPath == "" {
				fmt.Print(doc)
				return nil
			}

			if err := os.WriteFile(outPath, []byte(doc), 0644); err != nil {
				return fmt.Errorf("failed to write document: %w", err)
			}
			fmt.Printf("✓ Wrote %s\n", outPath)

			if openDoc {
				if err := open.Run(outPath); err != nil {
					return fmt.Errorf("failed to open %s: %w", outPath, err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the document to this file instead of stdout")
	cmd.Flags().BoolVar(&openDoc, "open", false, "Open the written document")

	return cmd
}

// renderDocs builds one Markdown document covering every manifest under
// dir, ordered by command name. A manifest that fails to parse or
// compile aborts the whole document.
func renderDocs(dir string) (string, error) {
	files, err := discover.ReadDir(os.DirFS(dir), ".")
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no manifests under %s", dir)
	}

	for _, f := range files {
		if f.Err != nil {
			return "", f.Err
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Manifest.Name < files[j].Manifest.Name
	})

	var b strings.Builder
	b.WriteString("# Command reference\n")

	for _, f := range files {
		m := f.Manifest

		sig, err := m.Signature()
		if err != nil {
			return "", fmt.Errorf("%s: %w", f.Path, err)
		}

		fmt.Fprintf(&b, "\n## %s\n\n", m.Name)
		if m.Deprecated != "" {
			fmt.Fprintf(&b, "> **Deprecated:** %s\n\n", m.Deprecated)
		}
		b.WriteString("```\n")
		b.WriteString(help.Render(m.Name, m.Description, sig, help.Detailed))
		b.WriteString("```\n")
	}

	return b.String(), nil
}
