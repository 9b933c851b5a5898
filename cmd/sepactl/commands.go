package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sepakit/pkg/bic"
	"sepakit/pkg/card"
	"sepakit/pkg/ccc"
	"sepakit/pkg/config"
	"sepakit/pkg/iban"
	"sepakit/pkg/identifier"
	"sepakit/pkg/logger"
	"sepakit/pkg/sepa"
)

func newRootCmd(log *zap.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sepactl",
		Short:         "sepactl - SEPA identifiers and payment files",
		Long:          `Validate IBAN, BIC and card numbers, convert Spanish CCC accounts and build or read pain.001/pain.008 documents`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		validateCmd(),
		convertCCCCmd(),
		identifiersCmd(),
		generateCmd(log),
		parseCmd(),
	)
	return rootCmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an account or card identifier",
	}

	ibans := iban.New()
	bics := bic.New()
	cards := card.New()

	cmd.AddCommand(
		&cobra.Command{
			Use:   "iban <value>",
			Short: "Validate an IBAN",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := ibans.Validate(args[0]); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"iban":        ibans.Normalize(args[0]),
					"formatted":   ibans.Format(args[0]),
					"countryCode": ibans.CountryCode(args[0]),
					"bban":        ibans.BBAN(args[0]),
				})
			},
		},
		&cobra.Command{
			Use:   "bic <value>",
			Short: "Validate a BIC",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := bics.Validate(args[0]); err != nil {
					return err
				}
				out := map[string]string{
					"bic":          bics.Normalize(args[0]),
					"bankCode":     bics.BankCode(args[0]),
					"countryCode":  bics.CountryCode(args[0]),
					"locationCode": bics.LocationCode(args[0]),
				}
				if branch, ok := bics.BranchCode(args[0]); ok {
					out["branchCode"] = branch
				}
				return printJSON(cmd.OutOrStdout(), out)
			},
		},
		&cobra.Command{
			Use:   "card <value>",
			Short: "Validate a card number with the Luhn check",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := cards.Validate(args[0]); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"type":   string(cards.Type(args[0])),
					"masked": cards.Mask(args[0], 0),
				})
			},
		},
	)
	return cmd
}

func convertCCCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert-ccc <ccc>",
		Short: "Convert a 20 digit Spanish CCC into an IBAN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ibans := iban.New()
			converter := ccc.NewConverter(ibans)
			converted, err := converter.ToIBAN(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"iban":      converted,
				"formatted": ibans.Format(converted),
				"validCcc":  converter.IsValidCCC(args[0]),
			})
		},
	}
}

func identifiersCmd() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "identifiers",
		Short: "Generate message, payment, end-to-end and mandate identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := identifier.NewGenerator()
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"messageId":     ids.MessageID(prefix),
				"paymentInfoId": ids.PaymentInfoID(prefix),
				"endToEndId":    ids.EndToEndID(prefix),
				"mandateId":     ids.MandateID(prefix),
			})
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Prefix replacing the defaults")
	return cmd
}

func generateCmd(log *zap.Logger) *cobra.Command {
	var (
		input      string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a SEPA document from a JSON payment description",
	}
	cmd.PersistentFlags().StringVarP(&input, "input", "i", "-", "JSON input file, - for stdin")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Optional YAML config file")

	run := func(generate func(*sepa.Builder, map[string]interface{}) (string, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			builder, err := newBuilder(configPath, log)
			if err != nil {
				return err
			}
			raw, err := readInput(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			var payload map[string]interface{}
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("invalid JSON input: %w", err)
			}
			doc, err := generate(builder, payload)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), doc)
			return err
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "credit-transfer",
			Short: "Build a pain.001.001.03 document",
			Args:  cobra.NoArgs,
			RunE:  run((*sepa.Builder).GenerateCreditTransferFromMap),
		},
		&cobra.Command{
			Use:   "direct-debit",
			Short: "Build a pain.008.001.02 document",
			Args:  cobra.NoArgs,
			RunE:  run((*sepa.Builder).GenerateDirectDebitFromMap),
		},
	)
	return cmd
}

func parseCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Read a SEPA document and print its contents as JSON",
	}
	cmd.PersistentFlags().StringVarP(&input, "input", "i", "-", "XML input file, - for stdin")

	run := func(parse func(*sepa.Parser, string) (*sepa.ParsedMessage, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			msg, err := parse(sepa.NewParser(), string(raw))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), msg)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "credit-transfer",
			Short: "Read a pain.001.001.03 document",
			Args:  cobra.NoArgs,
			RunE:  run((*sepa.Parser).ParseCreditTransfer),
		},
		&cobra.Command{
			Use:   "direct-debit",
			Short: "Read a pain.008.001.02 document",
			Args:  cobra.NoArgs,
			RunE:  run((*sepa.Parser).ParseDirectDebit),
		},
	)
	return cmd
}

func newBuilder(configPath string, log *zap.Logger) (*sepa.Builder, error) {
	cfg := config.Load()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return sepa.NewBuilder(iban.New(),
		sepa.WithCurrency(cfg.SEPA.DefaultCurrency),
		sepa.WithAmountPolicy(sepa.AmountPolicy{
			MinorUnitHeuristic: cfg.SEPA.MinorUnitHeuristic,
			MinorUnitThreshold: decimal.NewFromInt(cfg.SEPA.MinorUnitThreshold),
		}),
		sepa.WithAddressInjection(cfg.SEPA.InjectAddresses),
		sepa.WithLogger(logger.FromZap(log)),
	), nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
