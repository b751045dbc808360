package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/Reimouto/superchain-ops/config"
	"github.com/Reimouto/superchain-ops/report"
	"github.com/Reimouto/superchain-ops/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Audit a simulation trace and render the report",
	Long: `Audit a simulation trace dump and render the review report.
The trace is the JSON account-access dump produced by the simulation engine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd)
	},
}

func init() {
	RunCmd.Flags().String("trace", "", "Path to the simulation trace dump (required)")
	RunCmd.Flags().Bool("sort", false, "Sort accounts and slots ascending instead of first-seen order")
	RunCmd.Flags().String("out", "", "Write the report to this file instead of stdout")
	RunCmd.Flags().String("signer", "", "Approving safe address (overrides config)")
	RunCmd.Flags().StringSlice("owner", nil, "Approving safe owner (repeatable, overrides config)")
	RunCmd.Flags().String("operation", "", "Operation hash being approved")

	RunCmd.MarkFlagRequired("trace")
}

func runCommand(cmd *cobra.Command) error {
	tracePath, _ := cmd.Flags().GetString("trace")
	sorted, _ := cmd.Flags().GetBool("sort")
	outPath, _ := cmd.Flags().GetString("out")
	signer, _ := cmd.Flags().GetString("signer")
	owners, _ := cmd.Flags().GetStringSlice("owner")
	operation, _ := cmd.Flags().GetString("operation")

	log := newLogger()
	ctx := context.Background()

	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	trace, err := types.LoadTrace(tracePath)
	if err != nil {
		return err
	}
	log.Infof("Loaded trace with %d touch record(s)", len(trace))

	rt, err := newRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.auditor.Run(ctx, trace, sorted)
	if err != nil {
		return err
	}

	opts := signerOptions(cfg, signer, owners, operation)

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %v", err)
		}
		defer f.Close()
		out = f
	}

	if err := report.Render(out, result.Rows, result.Transfers, opts); err != nil {
		return err
	}

	if outPath != "" {
		log.Infof("Report written to %s", outPath)
	}
	return nil
}

// signerOptions merges the signer flags with the configured defaults; any
// flag given replaces the whole configured signer section.
func signerOptions(cfg config.Config, signer string, owners []string, operation string) report.Options {
	if signer == "" {
		signer = cfg.Signer.Address
		if len(owners) == 0 {
			owners = cfg.Signer.Owners
		}
	}

	opts := report.Options{
		Signer:        common.HexToAddress(signer),
		OperationHash: common.HexToHash(operation),
	}
	for _, owner := range owners {
		opts.SignerOwners = append(opts.SignerOwners, common.HexToAddress(owner))
	}
	return opts
}
