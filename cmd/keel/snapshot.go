package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"keel/internal/scenario"
	"keel/internal/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [flags] <manifest|snapshot>",
	Short: "Write or inspect a registry snapshot",
	Long:  "Run a manifest and serialize the resolved registry to disk, or pretty-print a snapshot written earlier with --show.",
	Args:  cobra.ExactArgs(1),
	RunE:  snapshotExecution,
}

func snapshotExecution(cmd *cobra.Command, args []string) error {
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	show, err := cmd.Flags().GetBool("show")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	if show {
		if outPath != "" {
			return fmt.Errorf("--show and --output are mutually exclusive")
		}
		payload, readErr := snapshot.Read(args[0])
		if readErr != nil {
			return readErr
		}
		printSnapshot(os.Stdout, payload)
		return nil
	}

	manifest, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	build, err := scenario.Run(manifest)
	if err != nil {
		return err
	}
	payload := snapshot.Capture(build.Ctx, manifest.Module)
	if outPath == "" {
		outPath = snapshotNameFromPath(args[0])
	}
	if err := snapshot.Write(outPath, payload); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(os.Stdout, "wrote %s (%d template(s), %d class(es))\n",
			outPath, len(payload.Templates), len(payload.Classes))
	}
	return nil
}

// snapshotNameFromPath derives the default output name: the manifest base
// name with its extension swapped for .mp.
func snapshotNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".mp"
}

func printSnapshot(out io.Writer, p *snapshot.Payload) {
	fmt.Fprintf(out, "module %s (schema %d)\n", p.Module, p.Schema)
	for i, t := range p.Templates {
		fmt.Fprintf(out, "template %s: ref u%d, builtin=%v, default=%v\n",
			t.Name, t.RefWidth, t.Builtin, t.HasDefault)
		for _, cl := range p.Classes {
			// Дескрипторы шаблонов нумеруются с единицы
			if int(cl.Template) != i+1 {
				continue
			}
			fmt.Fprintf(out, "  %s#%d: ref u%d, %d signature(s)\n", t.Name, cl.Number, cl.RefWidth, cl.Signatures)
			for _, m := range cl.Members {
				fmt.Fprintf(out, "    member %s: %s\n", m.Name, m.Type)
			}
			if len(cl.Methods) > 0 {
				fmt.Fprintf(out, "    methods: %s\n", strings.Join(cl.Methods, ", "))
			}
		}
	}
}

func init() {
	snapshotCmd.Flags().String("output", "", "snapshot destination (default: manifest name with .mp)")
	snapshotCmd.Flags().Bool("show", false, "treat the argument as a snapshot and print it")
}
