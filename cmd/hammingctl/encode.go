package main

import (
	"fmt"

	"github.com/danmuck/hamming/internal/hamming"
	"github.com/danmuck/hamming/internal/render"
	"github.com/spf13/cobra"
)

func newEncodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <text>",
		Short: "Print the encoded stream for text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoded := hamming.Encode([]byte(joinArgs(args)), a.code)
			_, err := fmt.Fprint(cmd.OutOrStdout(), render.Bits(encoded))
			return err
		},
	}
}
