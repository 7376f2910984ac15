package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/notargets/StructFE/element"
	"github.com/notargets/StructFE/utils"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <model.yaml|model.snap>",
	Short: "Check the stiffness contract of every element",
	Long: `Builds the model and evaluates each element stiffness matrix for its
dimension, symmetry and rigid body null space, reporting residuals relative to |K|.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Float64("tol", 0, "Accepted relative residual, overrides the configuration")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	m, err := readModel(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	tol := cfg.Tolerance
	if t, _ := cmd.Flags().GetFloat64("tol"); t > 0 {
		tol = t
	}
	dm, err := utils.NewDofMap(m.Nodes())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tKIND\tDOFS\t|K|\tASYM\tTRANS\tROT\tOK")
	var failed int
	for _, e := range m.Elements() {
		loc, err := dm.LocationArray(e)
		if err != nil {
			return err
		}
		r, err := element.CheckContract(e)
		if err != nil {
			return err
		}
		ok := r.Within(tol)
		if !ok {
			failed++
			logger.Warn("stiffness contract violated", "index", e.Index(), "kind", e.Kind(), "report", r.String())
		}
		fmt.Fprintf(w, "%d\t%v\t%d..%d\t%.4g\t%.2e\t%.2e\t%.2e\t%v\n", e.Index(), e.Kind(), loc[0], loc[len(loc)-1],
			r.Norm, r.Asymmetry, r.MaxTranslation(), r.MaxRotation(), ok)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d nodes, %d elements, %d global dofs\n", m.NumNodes(), len(m.Elements()), dm.NumDofs)
	if failed > 0 {
		return fmt.Errorf("%d of %d elements exceed tolerance %g", failed, len(m.Elements()), tol)
	}
	return nil
}
