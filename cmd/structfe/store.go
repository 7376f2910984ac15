package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/notargets/StructFE/model"
	"github.com/notargets/StructFE/store"
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save <name> <model.yaml|model.snap>",
	Short: "Save a model to the store under a name, replacing any previous one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var snap *model.Snapshot
		if isDocument(args[1]) {
			m, err := readModel(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if snap, err = m.Snapshot(); err != nil {
				return err
			}
		} else {
			var err error
			if snap, err = readSnapshot(args[1]); err != nil {
				return err
			}
		}
		s, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		if err := s.Save(cmd.Context(), args[0], snap); err != nil {
			return err
		}
		logger.Info("model saved", "name", args[0], "store", s.Path(), "elements", len(snap.Elements))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "List the stored models, or print one as a YAML model document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		if len(args) == 0 {
			list, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tNODES\tELEMENTS\tSAVED")
			for _, sum := range list {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", sum.Name, sum.Nodes, sum.Elements, sum.SavedAt.Format(time.RFC3339))
			}
			return w.Flush()
		}
		snap, err := s.Load(cmd.Context(), args[0])
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

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a model from the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		return s.Delete(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
}

func printModel(cmd *cobra.Command, m *model.Model) error {
	doc, err := model.NewDocument(m)
	if err != nil {
		return err
	}
	return doc.Write(cmd.OutOrStdout())
}
