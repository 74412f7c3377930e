package commands

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"labelprint-service/app"
	"labelprint-service/config"
	"labelprint-service/logger"
	"labelprint-service/services"
)

// ServiceFactory builds the print service a command talks to.
type ServiceFactory func(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.PrintService, io.Closer, error)

func defaultFactory(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.PrintService, io.Closer, error) {
	p, err := app.NewPipeline(ctx, cfg, prometheus.NewRegistry(), log)
	if err != nil {
		return nil, nil, err
	}
	return p.Service, p, nil
}

type runtime struct {
	factory ServiceFactory
	verbose bool
	cfg     *config.Config
	log     *zap.Logger
}

// withService loads configuration, builds the service and passes it to fn.
func (rt *runtime) withService(cmd *cobra.Command, fn func(services.PrintService) error) error {
	ctx := cmd.Context()
	svc, closer, err := rt.factory(ctx, rt.cfg, rt.log)
	if err != nil {
		return failure(cmd.ErrOrStderr(), err)
	}
	defer closer.Close() //nolint:errcheck
	return fn(svc)
}

// NewRootCmd builds the labelctl command tree.
func NewRootCmd(factory ServiceFactory) *cobra.Command {
	rt := &runtime{factory: factory}

	root := &cobra.Command{
		Use:   "labelctl",
		Short: "labelctl - print plate and reagent labels from the terminal",
		Long: `labelctl drives the same print workflows as the label print service:
destination plates with freshly issued barcodes, control plates, ad hoc
plates, source plates from a CSV file and reagent aliquots.

Configuration is read from the environment and an optional .env file.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cmd.Context())
			if err != nil {
				return failure(cmd.ErrOrStderr(), err)
			}
			rt.cfg = cfg
			rt.log = zap.NewNop()
			if rt.verbose {
				rt.log = logger.Initialize(cfg.AppEnv)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newPrintersCmd(rt),
		newValidateCmd(),
		newSourcePlatesCmd(rt),
		newDestinationPlatesCmd(rt),
		newControlPlatesCmd(rt),
		newAdHocCmd(rt),
		newReagentAliquotsCmd(rt),
	)
	return root
}

// Execute runs labelctl with the process arguments.
func Execute() error {
	return NewRootCmd(defaultFactory).ExecuteContext(context.Background())
}
