package main

import (
	"fmt"
	"sort"

	"github.com/danmuck/hamming/internal/pipeline"
	"github.com/danmuck/hamming/internal/render"
	"github.com/spf13/cobra"
)

func newSweepCmd(a *app) *cobra.Command {
	var (
		probability string
		trials      int
	)
	cmd := &cobra.Command{
		Use:   "sweep <text>",
		Short: "Run repeated randomized round trips and report statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.cfg.Probability
			if cmd.Flags().Changed("probability") {
				parsed, err := pipeline.ParseProbability(probability)
				if err != nil {
					return err
				}
				p = parsed
			}
			n := a.cfg.Trials
			if cmd.Flags().Changed("trials") {
				n = trials
			}

			res, err := pipeline.Sweep([]byte(joinArgs(args)), a.code, a.cfg.Injector(), p, n)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatSweep(res))
			return err
		},
	}
	cmd.Flags().StringVarP(&probability, "probability", "p", "", "per-bit error probability in [0,1]")
	cmd.Flags().IntVarP(&trials, "trials", "n", 0, "number of trials")
	return cmd
}

func formatSweep(res pipeline.SweepResult) string {
	summary := fmt.Sprintf(
		"code           %s\n"+
			"probability    %g\n"+
			"trials         %d\n"+
			"codewords      %d per trial\n"+
			"actual ber     %.4f\n"+
			"decoded        %d (%.1f%% correct)\n"+
			"miscorrected   %d\n"+
			"uncorrectable  %d\n"+
			"invalid text   %d",
		res.Code, res.Probability, res.Trials, res.Codewords, res.ActualBER(),
		res.Decoded, res.SuccessRate()*100, res.Miscorrected, res.Uncorrectable, res.InvalidText,
	)
	words := fmt.Sprintf(
		"corrected      %d\nparity only    %d\nuncorrectable  %d",
		res.CorrectedWords, res.ParityOnlyWords, res.UncorrectedWords,
	)

	counts := make([]int, 0, len(res.ErrorDistribution))
	for k := range res.ErrorDistribution {
		counts = append(counts, k)
	}
	sort.Ints(counts)
	dist := ""
	for _, k := range counts {
		dist += fmt.Sprintf("%3d errors  %d\n", k, res.ErrorDistribution[k])
	}

	return render.Columns([]render.Panel{
		{Title: "Sweep", Body: summary},
		{Title: "Codewords", Body: words},
		{Title: "Errors per trial", Body: dist},
	})
}
