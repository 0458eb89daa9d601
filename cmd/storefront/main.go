package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/assistant"
	"github.com/nikolayk812/storefront/internal/cache"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/httpapi"
	"github.com/nikolayk812/storefront/internal/identity"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/repository/memory"
	"github.com/redis/go-redis/v9"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "path to the YAML config")
	issueFor := flag.String("issue-token", "", "print a bearer token for this user id and exit")
	admin := flag.Bool("admin", false, "with -issue-token, grant the admin claim")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}

	if *issueFor != "" {
		if err := printToken(cfg, *issueFor, *admin); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logging.New: %v", err)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("storefront stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("openStores: %w", err)
	}
	defer closeStores()

	products := stores.products
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis.Ping: %w", err)
		}

		products = cache.NewCachedProducts(products, cache.NewRedisProductCache(client, cfg.CacheTTL), logger,
			cache.WithLookupTimeout(cfg.CheckoutTimeout))
	}

	cartService, err := cart.NewService(products, stores.carts, logger, cart.WithCurrency(cfg.Currency))
	if err != nil {
		return fmt.Errorf("cart.NewService: %w", err)
	}

	checkoutService, err := checkout.NewService(identity.ContextProvider{}, products, stores.carts, stores.orders,
		checkout.WithTimeout(cfg.CheckoutTimeout),
		checkout.WithProfiles(stores.profiles),
		checkout.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("checkout.NewService: %w", err)
	}

	verifier, err := identity.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	if err != nil {
		return fmt.Errorf("identity.NewVerifier: %w", err)
	}

	deps := httpapi.Deps{
		Products: products,
		Orders:   stores.orders,
		Profiles: stores.profiles,
		Cart:     cartService,
		Checkout: checkoutService,
		Verifier: verifier,
		Currency: cfg.Currency,
		Log:      logger,
	}

	llm, err := newLLM(ctx, cfg)
	switch {
	case err != nil:
		return fmt.Errorf("newLLM: %w", err)
	case llm == nil:
		logger.Warn("assistant disabled, LLM_API_KEY is empty")
	default:
		pipeline, err := assistant.NewPipeline(llm, cfg.GuidePath,
			assistant.WithModel(cfg.LLMModel),
			assistant.WithMaxTokens(cfg.LLMMaxTokens),
			assistant.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("assistant.NewPipeline: %w", err)
		}
		deps.Asker = pipeline
	}

	router, err := httpapi.NewRouter(deps)
	if err != nil {
		return fmt.Errorf("httpapi.NewRouter: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown: %w", err)
	}

	return nil
}

type stores struct {
	products port.ProductRepository
	carts    port.CartRepository
	orders   port.OrderRepository
	profiles port.ProfileRepository
}

func openStores(ctx context.Context, cfg config.Config) (stores, func(), error) {
	if cfg.Storage == config.StorageMemory {
		return stores{
			products: memory.NewProducts(),
			carts:    memory.NewCarts(),
			orders:   memory.NewOrders(),
			profiles: memory.NewProfiles(),
		}, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return stores{}, nil, fmt.Errorf("pool.Ping: %w", err)
	}

	return stores{
		products: repository.NewProduct(pool),
		carts:    repository.NewCart(pool),
		orders:   repository.NewOrder(pool),
		profiles: repository.NewProfile(pool),
	}, pool.Close, nil
}

// newLLM returns nil when no API key is configured.
func newLLM(ctx context.Context, cfg config.Config) (llms.Model, error) {
	if cfg.LLMAPIKey == "" {
		return nil, nil
	}

	switch cfg.LLMProvider {
	case config.LLMOpenAI:
		return openai.New(
			openai.WithModel(cfg.LLMModel),
			openai.WithToken(cfg.LLMAPIKey),
		)
	default:
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.LLMAPIKey),
			googleai.WithDefaultModel(cfg.LLMModel),
		)
	}
}

func printToken(cfg config.Config, userID string, admin bool) error {
	verifier, err := identity.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	if err != nil {
		return fmt.Errorf("identity.NewVerifier: %w", err)
	}

	token, err := verifier.Issue(identity.User{ID: userID, Admin: admin}, 24*time.Hour)
	if err != nil {
		return fmt.Errorf("verifier.Issue: %w", err)
	}

	fmt.Println(token)
	return nil
}
