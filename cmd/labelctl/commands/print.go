package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"labelprint-service/csvimport"
	"labelprint-service/models"
	"labelprint-service/services"
)

func report(cmd *cobra.Command, result *models.PrintResult, err error) error {
	if err != nil {
		return failure(cmd.ErrOrStderr(), err)
	}
	success(cmd.OutOrStdout(), "%s", result.Message)
	if result.JobID != "" {
		info(cmd.OutOrStdout(), "  job: %s", result.JobID)
	}
	return nil
}

func requirePrinter(cmd *cobra.Command) *string {
	var printer string
	cmd.Flags().StringVarP(&printer, "printer", "p", "", "printer name (required)")
	_ = cmd.MarkFlagRequired("printer")
	return &printer
}

func newPrintersCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "printers",
		Short: "List the configured printers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			heading(out, "Printers")
			for _, p := range rt.cfg.Printers {
				labelType := p.LabelType
				if labelType == "" {
					labelType = "any"
				}
				info(out, "  %-20s %s", p.Name, labelType)
			}
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a barcode CSV file without printing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := csvimport.ReadFile(args[0])
			if err != nil {
				return failure(cmd.ErrOrStderr(), err)
			}
			records, err := csvimport.Parse(text)
			if err != nil {
				return failure(cmd.ErrOrStderr(), err)
			}
			success(cmd.OutOrStdout(), "%s is valid: %d record(s), columns %v", args[0], len(records), csvimport.Headers(text))
			return nil
		},
	}
}

func newSourcePlatesCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source-plates FILE",
		Short: "Print one label per row of a barcode CSV file",
		Args:  cobra.ExactArgs(1),
	}
	printer := requirePrinter(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		text, err := csvimport.ReadFile(args[0])
		if err != nil {
			return failure(cmd.ErrOrStderr(), err)
		}
		return rt.withService(cmd, func(svc services.PrintService) error {
			result, err := svc.PrintSourcePlateLabels(cmd.Context(), text, *printer)
			return report(cmd, result, err)
		})
	}
	return cmd
}

func newDestinationPlatesCmd(rt *runtime) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "destination-plates",
		Short: "Issue new barcodes and print destination plate labels",
		Args:  cobra.NoArgs,
	}
	printer := requirePrinter(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of barcodes to issue")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return rt.withService(cmd, func(svc services.PrintService) error {
			result, err := svc.PrintDestinationPlateLabels(cmd.Context(), count, *printer)
			return report(cmd, result, err)
		})
	}
	return cmd
}

func newControlPlatesCmd(rt *runtime) *cobra.Command {
	var barcode string
	var count int
	cmd := &cobra.Command{
		Use:   "control-plates",
		Short: "Print copies of a control plate label",
		Args:  cobra.NoArgs,
	}
	printer := requirePrinter(cmd)
	cmd.Flags().StringVarP(&barcode, "barcode", "b", "", "control plate barcode (required)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of labels")
	_ = cmd.MarkFlagRequired("barcode")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return rt.withService(cmd, func(svc services.PrintService) error {
			result, err := svc.PrintControlPlateLabels(cmd.Context(), barcode, count, *printer)
			return report(cmd, result, err)
		})
	}
	return cmd
}

func newAdHocCmd(rt *runtime) *cobra.Command {
	var barcode, text string
	cmd := &cobra.Command{
		Use:   "ad-hoc",
		Short: "Print a single plate label with free text",
		Args:  cobra.NoArgs,
	}
	printer := requirePrinter(cmd)
	cmd.Flags().StringVarP(&barcode, "barcode", "b", "", "plate barcode (required)")
	cmd.Flags().StringVarP(&text, "text", "t", "", "text printed beside the barcode")
	_ = cmd.MarkFlagRequired("barcode")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return rt.withService(cmd, func(svc services.PrintService) error {
			result, err := svc.PrintAdHocPlateLabel(cmd.Context(), barcode, text, *printer)
			return report(cmd, result, err)
		})
	}
	return cmd
}

func newReagentAliquotsCmd(rt *runtime) *cobra.Command {
	var req models.ReagentAliquotRequest
	var quantity string
	cmd := &cobra.Command{
		Use:   "reagent-aliquots",
		Short: "Print identical reagent aliquot labels",
		Args:  cobra.NoArgs,
	}
	printer := requirePrinter(cmd)
	cmd.Flags().StringVarP(&req.Barcode, "barcode", "b", "", "aliquot barcode (required)")
	cmd.Flags().StringVar(&req.FirstText, "first-text", "", "first line of text")
	cmd.Flags().StringVar(&req.SecondText, "second-text", "", "second line of text")
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "1", fmt.Sprintf("number of labels (%d-%d)", services.MinQuantity, services.MaxQuantity))
	_ = cmd.MarkFlagRequired("barcode")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		req.Printer = *printer
		req.Quantity = models.Quantity(quantity)
		return rt.withService(cmd, func(svc services.PrintService) error {
			result, err := svc.PrintReagentAliquotLabels(cmd.Context(), req)
			return report(cmd, result, err)
		})
	}
	return cmd
}
