package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack <model.yaml> <model.snap>",
	Short: "Convert a YAML model document to a compressed snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(args[0])
		if err != nil {
			return err
		}
		m, err := doc.Build()
		if err != nil {
			return err
		}
		snap, err := m.Snapshot()
		if err != nil {
			return err
		}
		if err := writeSnapshot(args[1], snap); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", args[1], "nodes", len(snap.Nodes), "elements", len(snap.Elements))
		return nil
	},
}

var unpackCmd = &cobra.Command{
	Use:   "unpack <model.snap>",
	Short: "Load a snapshot and print it as a YAML model document",
	Long: `Loads the snapshot in two phases, nodes first and then element resolution,
and writes the resulting model to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := readSnapshot(args[0])
		if err != nil {
			return err
		}
		l, err := newLoader()
		if err != nil {
			return err
		}
		m, err := l.Load(cmd.Context(), snap)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return printModel(cmd, m)
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(unpackCmd)
}
