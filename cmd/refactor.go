package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alantheprice/codebaseai/pkg/common"
	"github.com/alantheprice/codebaseai/pkg/config"
	"github.com/alantheprice/codebaseai/pkg/filediscovery"
	"github.com/alantheprice/codebaseai/pkg/interfaces"
	"github.com/alantheprice/codebaseai/pkg/pipeline"
	"github.com/alantheprice/codebaseai/pkg/prompts"
	"github.com/alantheprice/codebaseai/pkg/providers"
	"github.com/alantheprice/codebaseai/pkg/providers/cache"
	"github.com/alantheprice/codebaseai/pkg/providers/llm"
	"github.com/alantheprice/codebaseai/pkg/refactor"
	"github.com/alantheprice/codebaseai/pkg/utils"
)

const formatterTimeout = 2 * time.Minute

var refactorFlags struct {
	javaDir   string
	outputDir string
	logFile   string
	logLevel  string
	logSilent bool
	modelName string
	llmName   string
	prompt    string
	onError   string
	formatter string
	noFormat  bool
	exts      []string
	showDiff  bool
	cacheSize int
	cacheTTL  int
}

var refactorCmd = &cobra.Command{
	Use:   "refactor",
	Short: "Refactor Java code using AI",
	Long: `Processes every .java file under --java_dir, sends each method body to the
configured LLM together with the refactoring prompt, and writes the result to the
same relative path under --output_dir. Comments are restored verbatim. Files whose
output is not older than the source are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		cfg, err := config.Load(cwd)
		if err != nil {
			return err
		}
		applyRefactorFlags(cmd, cfg)

		_, err = runRefactor(cmd.Context(), cfg, cmd.OutOrStdout())
		return err
	},
}

func init() {
	f := refactorCmd.Flags()
	f.StringVarP(&refactorFlags.javaDir, "java_dir", "j", "", "The Java package(s) directory to refactor")
	f.StringVarP(&refactorFlags.outputDir, "output_dir", "o", "", "The directory to store the refactored source code")
	f.StringVarP(&refactorFlags.logFile, "log_file", "l", config.DefaultLogFile, "The file to save the log")
	f.StringVarP(&refactorFlags.logLevel, "log_level", "L", "INFO", "The log level")
	f.BoolVarP(&refactorFlags.logSilent, "log_silent", "S", false, "Suppress the log to stdout")
	f.StringVarP(&refactorFlags.modelName, "model_name", "m", "", "Model name (default from LLM_MODEL or OLLAMA_MODEL_NAME)")
	f.StringVarP(&refactorFlags.llmName, "llm_name", "M", "", "LLM backend (default from LLM, else openai)")
	f.StringVarP(&refactorFlags.prompt, "prompt", "p", prompts.DefaultInstructionFile, "The refactor prompt")
	f.StringVar(&refactorFlags.onError, "on-error", "abort-file", "What to do when a method fails: abort-file or skip-method")
	f.StringVar(&refactorFlags.formatter, "formatter", config.DefaultFormatter, "Formatter command run on each written file; {file} is the path")
	f.BoolVar(&refactorFlags.noFormat, "no-format", false, "Do not run the formatter")
	f.StringSliceVar(&refactorFlags.exts, "ext", []string{".java"}, "File extensions to process")
	f.BoolVar(&refactorFlags.showDiff, "show-diff", false, "Print a diff of every written file")
	f.IntVar(&refactorFlags.cacheSize, "cache-size", config.DefaultCacheSize, "Identical method bodies cached per run; 0 disables")
	f.IntVar(&refactorFlags.cacheTTL, "cache-ttl", 0, "Seconds a cached response stays valid; 0 keeps it for the whole run")

	_ = refactorCmd.MarkFlagRequired("java_dir")
	_ = refactorCmd.MarkFlagRequired("output_dir")
}

// applyRefactorFlags overlays explicitly set flags onto cfg
func applyRefactorFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	cfg.SourceDir = refactorFlags.javaDir
	cfg.OutputDir = refactorFlags.outputDir

	if f.Changed("log_file") {
		cfg.LogFile = refactorFlags.logFile
	}
	if f.Changed("log_level") {
		cfg.LogLevel = refactorFlags.logLevel
	}
	if f.Changed("log_silent") {
		cfg.LogSilent = refactorFlags.logSilent
	}
	if f.Changed("model_name") {
		cfg.Model = refactorFlags.modelName
	}
	if f.Changed("llm_name") && refactorFlags.llmName != "" {
		cfg.LLM = strings.ToLower(strings.TrimSpace(refactorFlags.llmName))
	}
	if f.Changed("prompt") {
		cfg.PromptFile = refactorFlags.prompt
	}
	if f.Changed("on-error") {
		cfg.OnError = refactorFlags.onError
	}
	if f.Changed("formatter") {
		cfg.Formatter = refactorFlags.formatter
	}
	if f.Changed("no-format") {
		cfg.NoFormat = refactorFlags.noFormat
	}
	if f.Changed("ext") {
		cfg.Extensions = refactorFlags.exts
	}
	if f.Changed("show-diff") {
		cfg.ShowDiff = refactorFlags.showDiff
	}
	if f.Changed("cache-size") {
		cfg.CacheSize = refactorFlags.cacheSize
	}
	if f.Changed("cache-ttl") {
		cfg.CacheTTLSecs = refactorFlags.cacheTTL
	}
}

// buildProvider resolves the configured backend, wrapped in a response cache
// when enabled
func buildProvider(cfg *config.Config) (interfaces.LLMProvider, *cache.ResponseCache, error) {
	reg, err := providers.NewDefaultRegistry()
	if err != nil {
		return nil, nil, err
	}
	factory := llm.NewFactory(reg)
	pc := cfg.ProviderConfig()
	if err := factory.ValidateProviderConfig(pc); err != nil {
		return nil, nil, err
	}
	provider, err := factory.CreateProvider(pc)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CacheSize <= 0 {
		return provider, nil, nil
	}
	cached, err := cache.NewResponseCache(provider, cache.CacheConfig{
		MaxSize: cfg.CacheSize,
		TTL:     time.Duration(cfg.CacheTTLSecs) * time.Second,
	})
	if err != nil {
		return nil, nil, err
	}
	return cached, cached, nil
}

// runRefactor validates cfg, wires the components and runs the pipeline
func runRefactor(ctx context.Context, cfg *config.Config, out io.Writer) (pipeline.Summary, error) {
	res := cfg.ValidateAll()
	if err := res.CombinedError(); err != nil {
		return pipeline.Summary{}, err
	}

	logger := utils.InitLogger(utils.LoggerOptions{
		File:     cfg.LogFile,
		Level:    cfg.LogLevel,
		ToStdout: !cfg.LogSilent,
		JSON:     cfg.JSONLogs,
	})
	defer logger.Close()
	for _, w := range res.Warnings {
		logger.Warnf("%s", w)
	}

	policy, err := refactor.ParseErrorPolicy(cfg.OnError)
	if err != nil {
		return pipeline.Summary{}, err
	}

	instruction, err := prompts.LoadInstruction(cfg.PromptFile)
	if err != nil {
		return pipeline.Summary{}, err
	}

	provider, cached, err := buildProvider(cfg)
	if err != nil {
		return pipeline.Summary{}, err
	}
	model := cfg.ResolveModel()
	logger.Logf("Using %s with model %s", provider.GetName(), model)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return pipeline.Summary{}, fmt.Errorf("create output directory: %w", err)
	}

	var formatter *common.Formatter
	if !cfg.NoFormat {
		formatter = common.NewFormatter(common.NewShellExecutor(logger, formatterTimeout), cfg.Formatter)
	}

	invoker := refactor.NewInvoker(provider, instruction, model)
	p := pipeline.New(pipeline.Options{
		SourceDir: cfg.SourceDir,
		OutputDir: cfg.OutputDir,
		Walk:      filediscovery.WalkOptions{Extensions: cfg.Extensions},
		ShowDiff:  cfg.ShowDiff,
		DiffOut:   out,
	}, refactor.NewRefactorer(invoker, policy, logger), formatter, logger)

	summary, err := p.Run(ctx)
	if cached != nil {
		s := cached.Stats()
		logger.Debugf("response cache: %d hits, %d misses, %d evictions, ttl %s", s.Hits, s.Misses, s.Evictions, cached.TTL())
	}
	return summary, err
}
