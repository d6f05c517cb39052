package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/service/classifier"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Classifier modes
const (
	ClassifierHeuristic = "heuristic"
	ClassifierRemote    = "remote"
	ClassifierLLM       = "llm"
)

// Classifier holds CLI flags for report classification
type Classifier struct {
	mode         string
	configPath   string
	remoteURL    string
	remoteAPIKey string
}

func (x *Classifier) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "classifier",
			Usage:       "Classifier mode (heuristic, remote, llm)",
			Category:    "Classifier",
			Value:       ClassifierHeuristic,
			Sources:     cli.EnvVars("OUVIDORIA_CLASSIFIER"),
			Destination: &x.mode,
		},
		&cli.StringFlag{
			Name:        "classifier-config",
			Usage:       "Path to TOML file with categories and priority terms",
			Category:    "Classifier",
			Sources:     cli.EnvVars("OUVIDORIA_CLASSIFIER_CONFIG"),
			Destination: &x.configPath,
		},
		&cli.StringFlag{
			Name:        "classifier-url",
			Usage:       "URL of the remote analysis service (remote mode)",
			Category:    "Classifier",
			Sources:     cli.EnvVars("OUVIDORIA_CLASSIFIER_URL"),
			Destination: &x.remoteURL,
		},
		&cli.StringFlag{
			Name:        "classifier-api-key",
			Usage:       "API key of the remote analysis service",
			Category:    "Classifier",
			Sources:     cli.EnvVars("OUVIDORIA_CLASSIFIER_API_KEY"),
			Destination: &x.remoteAPIKey,
		},
	}
}

func (x Classifier) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", x.mode),
		slog.String("config", x.configPath),
		slog.String("url", x.remoteURL),
		slog.Int("api-key.len", len(x.remoteAPIKey)),
	)
}

// LoadConfig reads the category config, or returns the built-in one when no
// path is set.
func (x *Classifier) LoadConfig() (*classifier.Config, error) {
	if x.configPath == "" {
		return classifier.DefaultConfig(), nil
	}
	cfg, err := classifier.LoadConfig(x.configPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load classifier config", goerr.V(ConfigPathKey, x.configPath))
	}
	return cfg, nil
}

// Configure builds the classifier. Remote and llm modes fall back to the
// heuristic classifier on failure.
func (x *Classifier) Configure(ctx context.Context, gemini *Gemini) (interfaces.Classifier, error) {
	cfg, err := x.LoadConfig()
	if err != nil {
		return nil, err
	}
	heuristic := classifier.NewHeuristic(cfg)

	switch x.mode {
	case ClassifierHeuristic, "":
		return heuristic, nil

	case ClassifierRemote:
		if x.remoteURL == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "classifier-url is required in remote mode", goerr.V(FlagKey, "classifier-url"))
		}
		logging.From(ctx).Info("Using remote classifier", "url", x.remoteURL)
		return classifier.NewFallback(ClassifierRemote, classifier.NewRemote(x.remoteURL, x.remoteAPIKey), heuristic), nil

	case ClassifierLLM:
		if gemini == nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "gemini configuration is required in llm mode")
		}
		client, err := gemini.Configure(ctx)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, goerr.Wrap(ErrInvalidConfig, "gemini-project is required in llm mode", goerr.V(FlagKey, "gemini-project"))
		}
		logging.From(ctx).Info("Using LLM classifier", "gemini", gemini)
		return classifier.NewFallback(ClassifierLLM, classifier.NewLLM(client, cfg), heuristic), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid classifier mode", goerr.V("mode", x.mode))
	}
}
