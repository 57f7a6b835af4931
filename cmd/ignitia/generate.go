package main

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ignitia/internal/startup"
)

func newGenerateCmd() *cobra.Command {
	var idea, provider string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a startup profile for an idea and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			reg := newRegistry(cfg)
			if provider != "" {
				if err := reg.SetActive(provider); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := startup.NewGenerator(reg).Generate(ctx, idea)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVar(&idea, "idea", "", "the startup idea to expand")
	cmd.Flags().StringVar(&provider, "provider", "", "override the configured AI provider")
	_ = cmd.MarkFlagRequired("idea")
	return cmd
}
