package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/naseej/meshdesign/pkg/cache"
	"github.com/naseej/meshdesign/pkg/config"
	"github.com/naseej/meshdesign/pkg/designs"
	"github.com/naseej/meshdesign/pkg/errors"
	"github.com/naseej/meshdesign/pkg/mesh"
	"github.com/naseej/meshdesign/pkg/mesh/layout"
	"github.com/naseej/meshdesign/pkg/synth"
)

// layoutConfigFrom builds the engine config, keeping defaults for any
// unset value.
func layoutConfigFrom(cfg config.Layout) layout.Config {
	lc := layout.DefaultConfig()
	if cfg.NodeWidth > 0 {
		lc.NodeWidth = cfg.NodeWidth
	}
	if cfg.NodeHeight > 0 {
		lc.NodeHeight = cfg.NodeHeight
	}
	if cfg.RankGap > 0 {
		lc.RankGap = cfg.RankGap
	}
	if cfg.NodeGap > 0 {
		lc.NodeGap = cfg.NodeGap
	}
	return lc
}

// newSynthClient selects the design backend: the external AI design
// service over HTTP, or the offline keyword fallback. When a cache
// directory is configured, responses are cached keyed by prompt.
func newSynthClient(cfg config.Synth, logger *log.Logger) synth.Client {
	var client synth.Client = synth.KeywordClient{}
	if cfg.Backend == "http" {
		client = synth.NewHTTPClient(cfg.ServiceURL, time.Duration(cfg.TimeoutSeconds)*time.Second)
	}

	if cfg.CacheDir == "" {
		return client
	}
	c, err := cache.NewFileCache(cfg.CacheDir)
	if err != nil {
		logger.Warn("synthesis cache disabled", "dir", cfg.CacheDir, "err", err)
		return client
	}
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	return synth.NewCachedClient(client, c, cfg.Backend, ttl)
}

// newSynthesizer wires a synthesizer for the given store.
func newSynthesizer(cfg config.Config, store *mesh.Store, logger *log.Logger) *synth.Synthesizer {
	return synth.New(
		newSynthClient(cfg.Synth, logger),
		store,
		layout.ParseDirection(cfg.Layout.Direction),
		layoutConfigFrom(cfg.Layout),
		logger,
	)
}

// openDesigns opens the configured design persistence backend.
func openDesigns(ctx context.Context, cfg config.Designs) (designs.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return designs.NewMemoryStore(), nil
	case "file":
		return designs.NewFileStore(cfg.Dir)
	case "redis":
		return designs.NewRedisStore(ctx, designs.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	case "mongo":
		return designs.NewMongoStore(ctx, designs.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown designs backend %q", cfg.Backend)
	}
}
