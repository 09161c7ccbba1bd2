package main

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/intel-engine/internal/embed"
	"github.com/sells-group/intel-engine/internal/engine"
	"github.com/sells-group/intel-engine/internal/generative"
	"github.com/sells-group/intel-engine/internal/model"
	"github.com/sells-group/intel-engine/internal/monitoring"
	"github.com/sells-group/intel-engine/internal/segment"
	"github.com/sells-group/intel-engine/internal/vectorindex"
	anthropicpkg "github.com/sells-group/intel-engine/pkg/anthropic"
)

var (
	analyzeEntity    string
	analyzeObjective string
	analyzeDocsPath  string
	analyzeStrategy  string
	analyzeJSON      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run extraction for a single entity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		docs, err := loadDocuments(analyzeDocsPath)
		if err != nil {
			return err
		}

		strategies, err := parseStrategy(analyzeStrategy)
		if err != nil {
			return err
		}

		embedder := embed.NewOpenAIProvider(embed.OpenAIConfig{
			APIKey:     cfg.OpenAI.Key,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      cfg.OpenAI.Model,
			Dimensions: cfg.OpenAI.Dimension,
			RPS:        cfg.OpenAI.RPS,
		})

		opts := []engine.Option{
			engine.WithVectorIndex(vectorindex.Config{
				RedisAddr:     cfg.Redis.Addr,
				RedisPassword: cfg.Redis.Password,
			}),
			engine.WithChunking(segment.ChunkOptions{
				ChunkSize: cfg.Engine.ChunkSize,
				Overlap:   cfg.Engine.ChunkOverlap,
			}),
		}

		if cfg.Anthropic.Key != "" {
			opts = append(opts, engine.WithGenerator(
				anthropicpkg.NewClient(cfg.Anthropic.Key),
				generative.Config{
					Model:       cfg.Anthropic.Model,
					Temperature: cfg.Anthropic.Temperature,
					MaxTokens:   cfg.Anthropic.MaxTokens,
					TopK:        cfg.Engine.TopK,
				},
			))
		} else if strategies.Generative {
			return eris.New("generative strategy requires anthropic.key")
		}

		if cfg.Metrics.Enabled {
			reg := prometheus.NewRegistry()
			opts = append(opts, engine.WithMetrics(monitoring.New(reg)))
			go serveMetrics(cfg.Metrics.Addr, reg)
		}

		profile, err := engine.New(embedder, opts...).Analyze(ctx, engine.Request{
			EntityName: analyzeEntity,
			Objective:  analyzeObjective,
			Documents:  docs,
			Strategies: strategies,
		})
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(profile)
		}

		_, err = os.Stdout.WriteString(profile.Render())
		return err
	},
}

// loadDocuments reads the scraped-documents JSON array from path, or stdin
// when path is "-".
func loadDocuments(path string) ([]model.SourceDocument, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, eris.Wrap(err, "read documents")
	}

	var docs []model.SourceDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, eris.Wrap(err, "parse documents")
	}
	return docs, nil
}

func parseStrategy(s string) (engine.Strategies, error) {
	switch s {
	case "", "all":
		return engine.Strategies{}, nil
	case "lexical":
		return engine.Strategies{Lexical: true}, nil
	case "generative":
		return engine.Strategies{Generative: true}, nil
	default:
		return engine.Strategies{}, eris.Errorf("unknown strategy %q (want lexical, generative or all)", s)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		zap.L().Warn("metrics server stopped", zap.Error(err))
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeEntity, "entity", "", "entity name (required)")
	analyzeCmd.Flags().StringVar(&analyzeObjective, "objective", "", "analysis objective for strategy categories")
	analyzeCmd.Flags().StringVar(&analyzeDocsPath, "documents", "", "path to scraped documents JSON (required, - for stdin)")
	analyzeCmd.Flags().StringVar(&analyzeStrategy, "strategy", "all", "extraction strategy: lexical, generative or all")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the profile as JSON instead of text")
	_ = analyzeCmd.MarkFlagRequired("entity")
	_ = analyzeCmd.MarkFlagRequired("documents")
	rootCmd.AddCommand(analyzeCmd)
}
