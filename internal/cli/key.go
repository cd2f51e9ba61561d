package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/statsoverlay/internal/config"
	"github.com/five82/statsoverlay/internal/hypixel"
)

const checkKeyTimeout = 10 * time.Second

func newCheckKeyCmd(opts *rootOptions) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "check-key [key]",
		Short: "Validate a Hypixel API key",
		Long: `Validate a Hypixel API key against the key endpoint. The key is taken from
the argument, then --api-key, then the config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			key := cfg.APIKey
			if opts.apiKey != "" {
				key = opts.apiKey
			}
			if len(args) == 1 {
				key = args[0]
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return errors.New("no api key configured; run /api new in game or pass one")
			}

			client, err := hypixel.NewClient(cfg.HypixelAPIURL)
			if err != nil {
				return fmt.Errorf("init hypixel client: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), checkKeyTimeout)
			defer cancel()

			valid, err := client.ValidateKey(ctx, key)
			if err != nil {
				return fmt.Errorf("validate key: %w", err)
			}
			if !valid {
				return fmt.Errorf("api key %s is invalid", hypixel.Redact(key))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "api key %s is valid\n", hypixel.Redact(key))
			if !save {
				return nil
			}
			if err := config.SaveAPIKey(opts.configPath, key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "saved to config")
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write a valid key to the config file")
	return cmd
}
