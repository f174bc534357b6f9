package main

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/danmuck/hamming/internal/hamming"
	"github.com/danmuck/hamming/internal/render"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newDecodeCmd(a *app) *cobra.Command {
	var length int
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a %08b stream read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			stream, err := render.ParseBits(string(raw))
			if err != nil {
				return err
			}

			var msg []byte
			if cmd.Flags().Changed("length") {
				msg, err = hamming.DecodeLen(stream, a.code, length)
			} else {
				msg, err = hamming.Decode(stream, a.code)
			}
			out := cmd.OutOrStdout()
			switch {
			case err == nil && utf8.Valid(msg):
				_, err = fmt.Fprintln(out, string(msg))
				return err
			case err == nil:
				log.Debug().Msgf("hammingctl.decode invalid utf-8 bytes=%d", len(msg))
			case errors.Is(err, hamming.ErrUncorrectable):
				log.Debug().Msgf("hammingctl.decode %v", err)
			default:
				return err
			}
			_, err = fmt.Fprintln(out, render.DecodeFailureText)
			return err
		},
	}
	cmd.Flags().IntVar(&length, "length", 0, "original message length in bytes")
	return cmd
}
