package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cardtrack/internal/api"
	"cardtrack/internal/cache"
	"cardtrack/internal/config"
	"cardtrack/internal/ebay"
	"cardtrack/internal/httpx"
	"cardtrack/internal/logger"
	"cardtrack/internal/pricing"
	"cardtrack/internal/ratelimit"
	"cardtrack/internal/secrets"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App is the assembled pricing pipeline shared by every entrypoint.
type App struct {
	Config   config.Config
	Log      *zap.Logger
	Cache    pricing.Cache
	Resolver *pricing.Resolver
	Batcher  *pricing.Batcher

	closers []func() error
}

type options struct {
	ebayBaseURL string
	httpClient  ebay.HTTPClient
	secrets     secrets.API
}

// Option adjusts how New assembles the pipeline.
type Option func(*options)

// WithEbayBaseURL points the eBay client somewhere other than the
// environment's default host.
func WithEbayBaseURL(u string) Option { return func(o *options) { o.ebayBaseURL = u } }

// WithHTTPClient replaces the outbound HTTP client.
func WithHTTPClient(c ebay.HTTPClient) Option { return func(o *options) { o.httpClient = c } }

// WithSecretsAPI replaces the Secrets Manager client.
func WithSecretsAPI(api secrets.API) Option { return func(o *options) { o.secrets = api } }

// New builds the cache, the optional eBay source, the resolver and the
// batcher from cfg. Missing or unusable eBay credentials are not an error:
// the pipeline then serves mock quotes only.
func New(ctx context.Context, cfg config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	passes, err := cfg.Pricing.Passes()
	if err != nil {
		return nil, fmt.Errorf("keyword passes: %w", err)
	}

	a := &App{Config: cfg, Log: log}
	a.Cache = a.buildCache(ctx)

	ropts := []pricing.ResolverOption{
		pricing.WithPasses(passes),
		pricing.WithLogger(log.Named("pricing")),
	}
	if src := a.buildSource(ctx, o); src != nil {
		ropts = append(ropts, pricing.WithSource(src))
	}
	a.Resolver = pricing.NewResolver(a.Cache, ropts...)
	a.Batcher = pricing.NewBatcher(a.Resolver, cfg.Pricing.Delay(), log.Named("batch"))

	log.Info("pricing pipeline ready",
		zap.String("cache", cfg.Cache.Backend),
		zap.Bool("external", a.Resolver.ExternalEnabled()),
		zap.Duration("delay", cfg.Pricing.Delay()),
		zap.Int("passes", len(passes)),
	)
	return a, nil
}

// Close releases connections held by the pipeline.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) buildCache(ctx context.Context) pricing.Cache {
	cfg := a.Config
	if cfg.Cache.Backend == config.BackendRedis {
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		rc := cache.NewRedis(client, cfg.Cache.RedisPrefix, cfg.Pricing.CacheTTL(), a.Log.Named("cache"))

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := rc.Ping(pingCtx)
		if err == nil {
			a.closers = append(a.closers, client.Close)
			return rc
		}
		a.Log.Warn("redis unavailable, using in-memory quote cache", zap.String("addr", cfg.Cache.RedisAddr), zap.Error(err))
		_ = client.Close()
	}
	return cache.NewMemory(cfg.Pricing.CacheTTL(), cfg.Cache.MaxItems)
}

func (a *App) buildSource(ctx context.Context, o options) pricing.PriceSource {
	ec := a.Config.Ebay
	if !ec.Enabled() {
		a.Log.Info("eBay credentials not configured, serving mock quotes")
		return nil
	}

	secret := ec.ClientSecret
	if ec.ClientSecretARN != "" {
		var sm *secrets.Client
		if o.secrets != nil {
			sm = secrets.New(o.secrets, a.Log.Named("secrets"))
		} else {
			c, err := secrets.NewFromDefaultConfig(ctx, a.Log.Named("secrets"))
			if err != nil && secret == "" {
				a.Log.Warn("cannot reach secrets manager, serving mock quotes", zap.Error(err))
				return nil
			}
			sm = c
		}
		if sm != nil {
			s, err := sm.Get(ctx, ec.ClientSecretARN, secret)
			if err != nil {
				a.Log.Warn("eBay client secret unavailable, serving mock quotes", zap.Error(err))
				return nil
			}
			secret = s
		}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = httpx.New(a.Config.RequestTimeout())
	}
	baseURL := o.ebayBaseURL
	if baseURL == "" {
		baseURL = ebay.BaseURL(ec.Env)
	}

	client, err := ebay.NewClient(
		ebay.Credentials{ClientID: ec.ClientID, ClientSecret: secret, Scope: ec.Scope},
		ebay.WithBaseURL(baseURL),
		ebay.WithHTTPClient(httpClient),
		ebay.WithMarketplaceID(ec.MarketplaceID),
		ebay.WithSearchLimit(ec.SearchLimit),
		ebay.WithLimiter(ratelimit.PerMinute(ec.MaxRequestsPerMinute, ec.Burst)),
	)
	if err != nil {
		a.Log.Warn("eBay client disabled", zap.Error(err))
		return nil
	}
	return ebay.NewAdapter(client, a.Log.Named("ebay"))
}

// Setup loads configuration from path (see config.Load), builds the logger
// and assembles the pipeline.
func Setup(ctx context.Context, path string, opts ...Option) (*App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Stage: cfg.Stage, Color: cfg.Stage != logger.ProdStage})
	if err != nil {
		return nil, err
	}
	a, err := New(ctx, cfg, log, opts...)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	a.closers = append(a.closers, func() error {
		_ = log.Sync()
		return nil
	})
	return a, nil
}

// WriteTimeout bounds a response: the largest batch, every group paced by
// the delay and each upstream call running to the request timeout, plus a
// minute of slack.
func (a *App) WriteTimeout() time.Duration {
	perItem := a.Config.Pricing.Delay() + a.Config.RequestTimeout()
	return time.Duration(pricing.MaxBatchItems)*perItem + time.Minute
}

// Handler is the HTTP API over the pipeline.
func (a *App) Handler() http.Handler {
	return api.NewHandler(api.Deps{
		Resolver: a.Resolver,
		Batcher:  a.Batcher,
		Webhook: api.WebhookConfig{
			VerificationToken: a.Config.Webhook.VerificationToken,
			Endpoint:          a.Config.Webhook.Endpoint,
		},
		Debug: a.Config.Pricing.Debug,
		Log:   a.Log.Named("api"),
	})
}
