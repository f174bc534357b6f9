package main

import (
	"fmt"

	"github.com/danmuck/hamming/internal/pipeline"
	"github.com/danmuck/hamming/internal/render"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var probability string
	cmd := &cobra.Command{
		Use:   "run <text>",
		Short: "Encode, corrupt and decode text, showing every stream",
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

			pcfg, injector, err := a.cfg.Session()
			if err != nil {
				return err
			}
			session := pipeline.NewSession(pcfg, injector)
			session.SetMessage(joinArgs(args))
			snap, err := session.Randomize(p)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.Panels(snap))
			return err
		},
	}
	cmd.Flags().StringVarP(&probability, "probability", "p", "", "per-bit error probability in [0,1]")
	return cmd
}
