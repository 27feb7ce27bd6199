package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alantheprice/codebaseai/pkg/config"
	"github.com/alantheprice/codebaseai/pkg/interfaces/types"
	"github.com/alantheprice/codebaseai/pkg/providers"
	"github.com/alantheprice/codebaseai/pkg/providers/llm"
	"github.com/alantheprice/codebaseai/pkg/utils"
)

var providersCheck bool

const healthTimeout = 5 * time.Second

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List available LLM backends",
	Long: `Lists the LLM backends compiled into codebaseai. With --check, each backend is
configured from the environment and checked for availability.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := providers.NewDefaultRegistry()
		if err != nil {
			return err
		}

		var status map[string]string
		if providersCheck {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := config.Load(cwd)
			if err != nil {
				return err
			}
			status = checkProviders(cmd.Context(), reg, cfg)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, name := range reg.ListProviders() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, utils.CapitalizeWords(name), status[name])
		}
		return w.Flush()
	},
}

func init() {
	providersCmd.Flags().BoolVar(&providersCheck, "check", false, "Check each provider for availability")
}

// checkProviders builds every registered backend that validates against base
// and checks the built ones concurrently
func checkProviders(ctx context.Context, reg *llm.Registry, base *config.Config) map[string]string {
	factory := llm.NewFactory(reg)
	status := make(map[string]string)
	for _, name := range reg.ListProviders() {
		pc := providerConfigFor(base, name)
		if err := factory.ValidateProviderConfig(pc); err != nil {
			status[name] = "unconfigured: " + err.Error()
			continue
		}
		if _, err := factory.CreateProvider(pc); err != nil {
			status[name] = "unconfigured: " + err.Error()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	for name, err := range reg.CheckHealth(ctx) {
		if err != nil {
			status[name] = "unavailable: " + err.Error()
		} else {
			status[name] = "ok"
		}
	}
	return status
}

// providerConfigFor configures name from base, dropping model choices that
// belong to a different backend
func providerConfigFor(base *config.Config, name string) *types.ProviderConfig {
	cfg := *base
	if cfg.Backend() != name {
		cfg.LLM = name
		cfg.Model = ""
		cfg.LLMModel = ""
	}
	return cfg.ProviderConfig()
}
