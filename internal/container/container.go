// Package container wires the services together with samber/do. Each binary
// registers only the packages it needs.
package container

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/linktree-go/internal/analytics"
	analyticsstore "github.com/serroba/linktree-go/internal/analytics/store"
	"github.com/serroba/linktree-go/internal/auth"
	"github.com/serroba/linktree-go/internal/handlers"
	"github.com/serroba/linktree-go/internal/health"
	"github.com/serroba/linktree-go/internal/linktree"
	"github.com/serroba/linktree-go/internal/messaging"
	"github.com/serroba/linktree-go/internal/middleware"
	"github.com/serroba/linktree-go/internal/ratelimit"
	"github.com/serroba/linktree-go/internal/resolver"
	"github.com/serroba/linktree-go/internal/store"
	"github.com/serroba/linktree-go/internal/upstream"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type Options struct {
	Port            int    `default:"8888"                  help:"Port to listen on"                        short:"p"`
	DatabaseURL     string `default:""                      help:"Postgres connection string"               short:"d"`
	RedisAddr       string `default:"localhost:6379"        help:"Redis server address"                     short:"r"`
	JWTSecret       string `default:"dev-secret"            help:"Secret used to sign bearer tokens"`
	TokenTTL        int    `default:"24"                    help:"Bearer token lifetime in hours"`
	UpstreamURL     string `default:"http://localhost:8888" help:"Management service base URL"`
	UpstreamTimeout int    `default:"5"                     help:"Upstream request timeout in seconds"`
	CacheTTL        int    `default:"60"                    help:"Cached linktree lifetime in seconds"`
	LogFormat       string `default:"console"               help:"Log format: console or json"`
}

// consumerGroupName is the redis streams consumer group shared by all
// consumer processes, so redeliveries go to one member only.
const consumerGroupName = "linktree-consumers"

// defaultLimits applies to every endpoint that does not override its limits
// via operation metadata.
var defaultLimits = []ratelimit.LimitConfig{
	{Window: time.Minute, Max: 120},
}

func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		options := do.MustInvoke[*Options](i)

		return store.OpenPostgres(context.Background(), options.DatabaseURL)
	})
}

func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (auth.Repository, error) {
		return store.NewPostgresUserStore(do.MustInvoke[*bun.DB](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (linktree.Repository, error) {
		return store.NewPostgresLinktreeStore(do.MustInvoke[*bun.DB](i)), nil
	})
}

func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.SlidingWindowLimiter, error) {
		limitStore := store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i))

		return ratelimit.NewSlidingWindowLimiter(limitStore), nil
	})
}

func PublisherPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		redisClient := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: redisClient,
		}, messaging.NewZapLoggerAdapter(logger))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinktreeChangedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinktreeChangedEvent](
			group.Publisher(), analytics.TopicLinktreeChanged), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinktreeViewedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinktreeViewedEvent](
			group.Publisher(), analytics.TopicLinktreeViewed), nil
	})
}

func SubscriberPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		redisClient := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        redisClient,
			ConsumerGroup: consumerGroupName,
		}, messaging.NewZapLoggerAdapter(logger))
	})
}

// HTTPPackage provides the router and the huma API with the shared middleware
// stack: request ids and rate limiting. Service packages add their own
// middleware and routes on top.
func HTTPPackage(injector *do.Injector, title string) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		limiter := do.MustInvoke[*ratelimit.SlidingWindowLimiter](i)
		logger := do.MustInvoke[*zap.Logger](i)

		handlers.UseMessageErrors()

		api := humachi.New(router, huma.DefaultConfig(title, "1.0.0"))
		api.UseMiddleware(
			middleware.RequestID(api),
			middleware.RateLimiter(api, limiter, defaultLimits, logger),
		)

		return api, nil
	})
}

// AuthService marks the auth service as assembled. Invoking it registers all
// auth routes.
type AuthService struct{}

func AuthServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*auth.TokenIssuer, error) {
		options := do.MustInvoke[*Options](i)
		ttl := time.Duration(options.TokenTTL) * time.Hour

		return auth.NewTokenIssuer(options.JWTSecret, ttl), nil
	})

	do.Provide(injector, func(i *do.Injector) (*AuthService, error) {
		api := do.MustInvoke[huma.API](i)
		logger := do.MustInvoke[*zap.Logger](i)
		users := do.MustInvoke[auth.Repository](i)
		issuer := do.MustInvoke[*auth.TokenIssuer](i)

		handlers.RegisterAuthRoutes(api, handlers.NewAuthHandler(users, issuer, logger))
		health.RegisterRoutes(api, health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			health.NewDBChecker(do.MustInvoke[*bun.DB](i)),
		))

		return &AuthService{}, nil
	})
}

// ManagementService marks the management service as assembled.
type ManagementService struct{}

func ManagementServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*auth.TokenIssuer, error) {
		options := do.MustInvoke[*Options](i)
		ttl := time.Duration(options.TokenTTL) * time.Hour

		return auth.NewTokenIssuer(options.JWTSecret, ttl), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ManagementService, error) {
		api := do.MustInvoke[huma.API](i)
		logger := do.MustInvoke[*zap.Logger](i)
		trees := do.MustInvoke[linktree.Repository](i)
		issuer := do.MustInvoke[*auth.TokenIssuer](i)
		publishChanged := do.MustInvoke[messaging.Publish[analytics.LinktreeChangedEvent]](i)

		api.UseMiddleware(middleware.Authenticate(api, issuer))

		handlers.RegisterManagementRoutes(api,
			handlers.NewLinktreeHandler(trees, publishChanged, logger),
			handlers.NewLinkHandler(trees, publishChanged, logger),
		)
		health.RegisterRoutes(api, health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			health.NewDBChecker(do.MustInvoke[*bun.DB](i)),
		))

		return &ManagementService{}, nil
	})
}

// PublicService marks the public lookup service as assembled.
type PublicService struct{}

func PublicServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*resolver.Resolver, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		cache := store.NewRedisCache(do.MustInvoke[*redis.Client](i))
		fetcher := upstream.NewClient(
			options.UpstreamURL,
			time.Duration(options.UpstreamTimeout)*time.Second,
		)
		ttl := time.Duration(options.CacheTTL) * time.Second

		return resolver.New(cache, fetcher, ttl, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*PublicService, error) {
		api := do.MustInvoke[huma.API](i)
		logger := do.MustInvoke[*zap.Logger](i)
		res := do.MustInvoke[*resolver.Resolver](i)
		publishViewed := do.MustInvoke[messaging.Publish[analytics.LinktreeViewedEvent]](i)

		api.UseMiddleware(middleware.RequestMetadata(api))

		handlers.RegisterPublicRoutes(api, handlers.NewPublicHandler(res, publishViewed, logger))
		health.RegisterRoutes(api, health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			nil,
		))

		return &PublicService{}, nil
	})
}

// ConsumerGroupPackage assembles the consumers for both topics: changed
// events invalidate the cache and land in the analytics store, viewed events
// land in the analytics store only.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if options.DatabaseURL == "" {
			return analyticsstore.NewNoop(logger), nil
		}

		return analyticsstore.NewPostgres(do.MustInvoke[*bun.DB](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		subscriber := do.MustInvoke[message.Subscriber](i)
		logger := do.MustInvoke[*zap.Logger](i)
		events := do.MustInvoke[analytics.Store](i)

		cache := store.NewRedisCache(do.MustInvoke[*redis.Client](i))
		invalidator := resolver.NewInvalidator(cache, logger)

		changed := func(ctx context.Context, event *analytics.LinktreeChangedEvent) error {
			if err := invalidator.HandleLinktreeChanged(ctx, event); err != nil {
				return err
			}

			return events.SaveLinktreeChanged(ctx, event)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinktreeChanged, changed, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinktreeViewed, events.SaveLinktreeViewed, logger))

		return group, nil
	})
}
