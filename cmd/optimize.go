package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/procsim/flowsim/app"
	"github.com/procsim/flowsim/infra/logger"
)

var targetConversion float64

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Minimize annual operating cost at a target CO conversion",
	Long: "Solves the square flowsheet, then relaxes the compressor outlet " +
		"pressure and reactor outlet temperature and searches them for the " +
		"minimum annual operating cost subject to the conversion target.",
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().Float64VarP(&targetConversion, "target", "t", 0,
		"target CO conversion, overrides the configured value when set")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Optimize.Enabled = true
	if cmd.Flags().Changed("target") {
		cfg.Optimize.TargetConversion = targetConversion
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
