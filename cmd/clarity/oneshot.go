package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"clarity_engine/internal/app/service"
	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/infrastructure/httpclient"
)

const oneShotTimeout = 30 * time.Second

var transferFlags entity.TransferRequest

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a native transfer and print the explanation as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), oneShotTimeout)
		defer cancel()

		result, simErr := app.simulation.Simulate(ctx, transferFlags)
		if simErr != nil && service.IsValidationError(simErr) {
			return simErr
		}
		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		return simErr
	},
}

var scanAddress string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a wallet for portfolio risks and print the report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), oneShotTimeout)
		defer cancel()

		result, err := app.riskScan.Scan(ctx, scanAddress)
		if err != nil {
			return fmt.Errorf("risk scan failed: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&transferFlags.From, "from", "", "sender address")
	simulateCmd.Flags().StringVar(&transferFlags.To, "to", "", "recipient address")
	simulateCmd.Flags().StringVar(&transferFlags.Value, "value", "", "amount in wei")
	simulateCmd.Flags().StringVar(&transferFlags.Network, "network", "sepolia", "network identifier")
	simulateCmd.Flags().StringVar(&transferFlags.Data, "data", "", "optional hex calldata")

	scanCmd.Flags().StringVar(&scanAddress, "address", "", "wallet address")
	_ = scanCmd.MarkFlagRequired("address")
}

func printJSON(w io.Writer, v any) error {
	out, err := httpclient.JSON.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
