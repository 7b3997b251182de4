package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankek/terraform-provider-plottoru/internal/generation"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
	"github.com/ankek/terraform-provider-plottoru/internal/pipeline"
	"github.com/ankek/terraform-provider-plottoru/internal/server"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	var (
		addr   string
		policy string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart form endpoints over HTTP",
		Long: `Serve exposes /prompt, /matrix and /matrix/items over HTTP. Every request
runs its own pipeline, so concurrent requests never share items or figures.
The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pipeline.LoggerFromContext(ctx)

			g, err := generation.New(ctx, generatorConfig(v))
			if err != nil {
				return err
			}
			p := pipeline.New(g)
			if p.Policy, err = matrix.ParsePolicy(policy); err != nil {
				return err
			}

			logger.Debug("starting server", "generator", v.GetString("generator"), "policy", p.Policy)
			return server.New(p, logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&policy, "policy", "lenient", "invalid item handling: lenient drops, strict fails")
	return cmd
}
