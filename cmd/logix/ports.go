package main

import (
	"fmt"

	"github.com/Geun-Oh/logix/internal/source"
	"github.com/spf13/cobra"
)

var listPorts = source.ListPorts

func newListPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-ports",
		Short: "List serial devices a capture can be read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ports, err := listPorts()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ports) == 0 {
				fmt.Fprintln(out, "No serial ports found.")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintln(out, p)
			}
			return nil
		},
	}
}
