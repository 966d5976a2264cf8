package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/ggfx"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List filter operations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range ggfx.Ops() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List kernel presets and their weights",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range ggfx.PresetNames() {
			k, _ := ggfx.Preset(name)
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s dim=%d divisor=%g weights=%v\n",
				name, k.Dim, k.EffectiveDivisor(), k.Weights)
		}
	},
}

func init() {
	rootCmd.AddCommand(opsCmd, presetsCmd)
}
