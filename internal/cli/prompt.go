package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankek/terraform-provider-plottoru/internal/prompt"
)

func newPromptCmd() *cobra.Command {
	var opts chartOpts

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the instruction that would be sent to the generator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, err := opts.loadPreset(cmd)
			if err != nil {
				return err
			}
			req := opts.request(cmd, preset)
			if err := req.Validate(); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), prompt.ForRequest(req))
			return nil
		},
	}

	opts.register(cmd.Flags())
	return cmd
}
