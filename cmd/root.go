package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/codex-cli/codex/internal/apiclient"
	"github.com/codex-cli/codex/internal/config"
	"github.com/codex-cli/codex/internal/runner"
	"github.com/codex-cli/codex/internal/tokens"
	"github.com/codex-cli/codex/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile     string
	modelFlag      string
	promptFileFlag string
	providerURL    string
	providerAPIKey string
	streamFlag     bool
	maxTokensFlag  int
	retriesFlag    int
	retryDelayFlag time.Duration
	timeoutFlag    time.Duration
	quietFlag      bool
	compactMode    bool
	debugMode      bool
)

// rootCmd is the entry point: send one prompt to the hosted generate API
// and render the response, streamed by default.
var rootCmd = &cobra.Command{
	Use:   "codex [prompt]",
	Short: "Send a prompt to a hosted text-generation API",
	Long: `codex sends a prompt to an Ollama-compatible hosted API and renders
the response, streaming it token by token by default. If stdin is piped,
its contents are prepended to the prompt.

The API key is read from the OLLAMA_API_KEY environment variable.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := ""
		if len(args) > 0 {
			prompt = args[0]
		}
		return runGenerate(cmd.Context(), prompt)
	},
}

// GetRootCommand returns the root command with the version set. Called from
// main with the build-time version string.
func GetRootCommand(v string) *cobra.Command {
	rootCmd.Version = v
	return rootCmd
}

// InitConfig loads the config file and environment bindings. Automatically
// called by cobra before command execution.
func InitConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".codex")
		viper.SetConfigType("yml")
	}

	viper.SetEnvPrefix("codex")
	viper.AutomaticEnv()
	_ = viper.BindEnv("provider-api-key", "CODEX_API_KEY", "OLLAMA_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configFile != "" {
			fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
			os.Exit(1)
		}
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "config file (default is $HOME/.codex.yml)")
	rootCmd.PersistentFlags().
		StringVarP(&modelFlag, "model", "m", apiclient.DefaultModel, "model to use")
	rootCmd.PersistentFlags().
		StringVarP(&promptFileFlag, "prompt-file", "f", "", "read the prompt from a file")
	rootCmd.PersistentFlags().
		BoolVar(&streamFlag, "stream", true, "stream the response as it is generated")
	rootCmd.PersistentFlags().
		IntVar(&maxTokensFlag, "max-tokens", 2048, "token budget for the response (approximate)")
	rootCmd.PersistentFlags().
		IntVar(&retriesFlag, "retries", apiclient.DefaultMaxRetries, "retry attempts after a transient failure")
	rootCmd.PersistentFlags().
		DurationVar(&retryDelayFlag, "retry-delay", apiclient.DefaultRetryDelay, "delay between retry attempts")
	rootCmd.PersistentFlags().
		DurationVar(&timeoutFlag, "timeout", 30*time.Second, "timeout waiting for the response headers")
	rootCmd.PersistentFlags().
		BoolVar(&quietFlag, "quiet", false, "print only the raw response text")
	rootCmd.PersistentFlags().
		BoolVar(&compactMode, "compact", false, "plain output without markdown styling")
	rootCmd.PersistentFlags().
		BoolVar(&debugMode, "debug", false, "enable debug logging")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&providerURL, "provider-url", apiclient.DefaultBaseURL, "generate endpoint URL")
	flags.StringVar(&providerAPIKey, "provider-api-key", "", "API key (overrides OLLAMA_API_KEY)")

	_ = viper.BindPFlag("model", flags.Lookup("model"))
	_ = viper.BindPFlag("stream", flags.Lookup("stream"))
	_ = viper.BindPFlag("max-tokens", flags.Lookup("max-tokens"))
	_ = viper.BindPFlag("retries", flags.Lookup("retries"))
	_ = viper.BindPFlag("retry-delay", flags.Lookup("retry-delay"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("compact", flags.Lookup("compact"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("provider-url", flags.Lookup("provider-url"))
	_ = viper.BindPFlag("provider-api-key", flags.Lookup("provider-api-key"))
}

func runGenerate(ctx context.Context, promptArg string) error {
	debug := viper.GetBool("debug")
	quiet := viper.GetBool("quiet")
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cli := ui.NewCLI(debug, viper.GetBool("compact"))

	stdin, err := config.ReadPipedStdin()
	if err != nil {
		return err
	}

	var filePrompt string
	if promptFileFlag != "" {
		filePrompt, err = config.LoadPromptFile(promptFileFlag)
		if err != nil {
			return err
		}
	}

	req, err := config.ResolveRequest(config.Sources{
		Prompt:     promptArg,
		FilePrompt: filePrompt,
		Stdin:      stdin,
		Model:      viper.GetString("model"),
		APIKey:     viper.GetString("provider-api-key"),
		Stream:     viper.GetBool("stream"),
		MaxTokens:  viper.GetInt("max-tokens"),
	})
	if err != nil {
		return err
	}

	client := apiclient.New(apiclient.Options{
		BaseURL: viper.GetString("provider-url"),
		HTTPClient: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: viper.GetDuration("timeout")},
		},
		MaxRetries: viper.GetInt("retries"),
		RetryDelay: viper.GetDuration("retry-delay"),
		Warn:       cli.DisplayWarning,
	})

	opts := runner.Options{
		Generate: func(ctx context.Context, req *apiclient.Request) (runner.ChunkStream, error) {
			return client.Generate(ctx, req)
		},
	}
	if req.Stream {
		opts.RenderChunk = func(text string) { fmt.Print(text) }
	} else if !quiet {
		opts.Spinner = cli.ShowSpinner
	}

	cli.DisplayDebugMessage(fmt.Sprintf("model=%s stream=%v max-tokens=%d prompt-tokens=%d",
		req.Model, req.Stream, req.MaxTokens, tokens.Estimate(req.Prompt)))

	outcome := runner.New(opts).Execute(ctx, req)

	if req.Stream {
		// Terminate the progressive output line before anything else is
		// printed.
		fmt.Println()
	}

	if outcome.Err != nil {
		return outcome.Err
	}

	if !req.Stream {
		if quiet {
			fmt.Println(outcome.FullText)
		} else {
			cli.DisplayAssistantMessage(outcome.FullText, req.Model)
		}
	}

	if outcome.Truncated && !quiet {
		cli.DisplayInfo(fmt.Sprintf("Response truncated at the %d-token budget.", req.MaxTokens))
	}
	cli.DisplayDebugMessage(fmt.Sprintf("response tokens=%d truncated=%v", outcome.TokenCount, outcome.Truncated))

	return nil
}
