package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"dana-report-card/internal/config"
	"dana-report-card/internal/dana"
	"dana-report-card/internal/excel"
	"dana-report-card/internal/logger"
	"dana-report-card/internal/model"
	"dana-report-card/pkg/errors"

	"github.com/spf13/cobra"
)

type fetchOutput struct {
	ImplPath string          `json:"impl_path"`
	Report   *model.Summary  `json:"report,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"`
	Error    string          `json:"error,omitempty"`
	Kind     string          `json:"error_kind,omitempty"`
}

func newFetchCommand() *cobra.Command {
	var (
		xlsxPath string
		withRaw  bool
	)

	cmd := &cobra.Command{
		Use:   "fetch [impl-path...]",
		Short: "Fetch report cards and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(cfg.Logging.Level, cfg.Logging.Format)
			log := logger.Get()

			implPaths := args
			if len(implPaths) == 0 {
				implPaths = cfg.Dana.ImplPaths
			}
			if len(implPaths) == 0 {
				return errors.NewConfigurationError("impl_path", errors.ErrMissingImpl)
			}
			if xlsxPath == "" {
				xlsxPath = cfg.Export.XLSXPath
			}

			client, err := dana.NewClientFromConfig(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info().Int("count", len(implPaths)).Msg("Fetching report cards")
			results := client.GetReportCards(ctx, implPaths)

			var failed int
			outputs := make([]fetchOutput, 0, len(results))
			for i, res := range results {
				out := fetchOutput{ImplPath: res.ImplPath}
				if res.Err != nil {
					failed++
					out.Error = res.Err.Error()
					out.Kind = errors.KindOf(res.Err).String()
					log.Error().Err(res.Err).Str("impl_path", res.ImplPath).Msg("Failed to fetch report card")
					outputs = append(outputs, out)
					continue
				}

				summary := res.ReportCard.Summary()
				out.Report = &summary
				if withRaw {
					out.Raw = res.ReportCard.Raw()
				}
				outputs = append(outputs, out)

				if xlsxPath != "" {
					path := exportPath(xlsxPath, res.ImplPath, i, len(results) > 1)
					if err := exportWorkbook(ctx, path, summary); err != nil {
						return err
					}
					log.Info().Str("path", path).Msg("Report card exported")
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(outputs); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d report cards failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also export each report card to this .xlsx path")
	cmd.Flags().BoolVar(&withRaw, "raw", false, "include the decrypted payload in the output")

	return cmd
}

func newDeriveKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "derive-key [client-id]",
		Short: "Print the decryption key derived from a client id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID := ""
			if len(args) == 1 {
				clientID = args[0]
			}
			fmt.Fprintln(cmd.OutOrStdout(), dana.DeriveKey(clientID, dana.FallbackClientID))
			return nil
		},
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// exportPath keeps every workbook next to base. The result index keeps
// names unique when impl paths repeat or sanitize to the same text.
func exportPath(base, implPath string, index int, multiple bool) string {
	if !multiple {
		return base
	}
	ext := filepath.Ext(base)
	name := strings.Trim(unsafeFileChars.ReplaceAllString(implPath, "_"), "_")
	return fmt.Sprintf("%s-%d-%s%s", strings.TrimSuffix(base, ext), index+1, name, ext)
}

func exportWorkbook(ctx context.Context, path string, summary model.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := excel.NewExporter().Export(ctx, summary, f); err != nil {
		return err
	}
	return f.Close()
}
