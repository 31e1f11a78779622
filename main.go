package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ai_article_backend/config"
	"ai_article_backend/generator"
	"ai_article_backend/publisher"
	"ai_article_backend/server"
)

var (
	verbose    bool
	configPath string
	logger     *zap.Logger
	v          = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "article-backend",
	Short: "Generate cited articles with an LLM",
	Long: `Turns a topic, tone and length into an article with inline citations and a
References section. The draft can be passed through a second editing pass
that shortens sentences while keeping facts and citations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, agent, closeLLM, err := buildAgent(ctx)
		if err != nil {
			return err
		}
		defer closeLLM()

		gin.SetMode(gin.ReleaseMode)
		srv, err := server.New(agent, logger)
		if err != nil {
			return err
		}
		httpSrv := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server running", zap.String("addr", httpSrv.Addr),
				zap.String("provider", cfg.LLM.Provider), zap.Bool("refine", cfg.Pipeline.Refine))
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

var (
	topic    string
	tone     string
	length   string
	outDir   string
	withHTML bool
	noRefine bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one article and write it to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		if noRefine {
			v.Set("pipeline.refine", false)
		}
		_, agent, closeLLM, err := buildAgent(cmd.Context())
		if err != nil {
			return err
		}
		defer closeLLM()

		res, err := agent.Generate(cmd.Context(), generator.ArticleRequest{
			Topic:  topic,
			Tone:   generator.Tone(tone),
			Length: generator.Length(length),
		})
		if err != nil {
			return err
		}
		if !generator.HasReferences(res.Article) {
			logger.Warn("article has no References section")
		}

		if outDir == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Article)
			return err
		}
		pub, err := publisher.New(outDir, logger)
		if err != nil {
			return err
		}
		out, err := pub.Publish(cmd.Context(), publisher.PublishParams{Topic: topic, Result: res, HTML: withHTML})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out.MarkdownPath)
		return err
	},
}

// buildAgent loads configuration and wires the LLM client into a pipeline.
// The returned func releases the client.
func buildAgent(ctx context.Context) (config.Config, *generator.Agent, func(), error) {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	llm, err := generator.NewLLM(ctx, cfg.LLMSettings())
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	closeLLM := func() {
		if c, ok := llm.(io.Closer); ok {
			_ = c.Close()
		}
	}
	opts := cfg.AgentOptions()
	opts.Logger = logger
	agent, err := generator.NewAgent(llm, opts)
	if err != nil {
		closeLLM()
		return config.Config{}, nil, nil, err
	}
	return cfg, agent, closeLLM, nil
}

func bindFlag(key string, cmd *cobra.Command, flag string) {
	_ = v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag))
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file")
	rootCmd.PersistentFlags().String("provider", "", "llm provider: openai, deepseek, gemini or mock")
	rootCmd.PersistentFlags().String("model", "", "llm model name")
	rootCmd.PersistentFlags().String("base-url", "", "OpenAI-compatible base URL")
	bindFlag("llm.provider", rootCmd, "provider")
	bindFlag("llm.model", rootCmd, "model")
	bindFlag("llm.base_url", rootCmd, "base-url")

	serveCmd.Flags().String("addr", "", "listen port or address (overrides PORT)")
	_ = v.BindPFlag("port", serveCmd.Flags().Lookup("addr"))

	generateCmd.Flags().StringVarP(&topic, "topic", "t", "", "article topic (required)")
	generateCmd.Flags().StringVar(&tone, "tone", string(generator.ToneNeutral), "neutral, academic or persuasive")
	generateCmd.Flags().StringVar(&length, "length", string(generator.LengthMedium), "short, medium or long")
	generateCmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write the article into (stdout when empty)")
	generateCmd.Flags().BoolVar(&withHTML, "html", false, "also write an HTML rendering")
	generateCmd.Flags().BoolVar(&noRefine, "no-refine", false, "skip the editing pass")
	_ = generateCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(serveCmd, generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
