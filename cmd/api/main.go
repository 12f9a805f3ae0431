package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/campus-canteen/internal/api"
	"github.com/example/campus-canteen/internal/auth"
	"github.com/example/campus-canteen/internal/checkout"
	"github.com/example/campus-canteen/internal/config"
	"github.com/example/campus-canteen/internal/domain/admin"
	"github.com/example/campus-canteen/internal/domain/cart"
	"github.com/example/campus-canteen/internal/domain/catalog"
	"github.com/example/campus-canteen/internal/infrastructure/kafka"
	"github.com/example/campus-canteen/internal/infrastructure/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Configuration error: %v", err)
	}

	log.Println("[API] ========================================")
	log.Println("[API] Campus Canteen Storefront")
	log.Println("[API] ========================================")

	source, err := catalog.LoadSeed()
	if err != nil {
		log.Fatalf("[API] Failed to load menu seed: %v", err)
	}
	log.Printf("[API] Menu: %d entries loaded", source.Len())

	// Accounts and sessions
	users := auth.NewDirectory()
	if _, err := users.Register(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("[API] Failed to seed admin account: %v", err)
	}
	log.Printf("[API] Admin account: %s", cfg.AdminEmail)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.SessionExpiry)

	// Cart persistence is optional; without DATABASE_URL carts live in memory
	// for the lifetime of the process.
	var carts *cart.Registry
	if cfg.DatabaseURL != "" {
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		if err := store.EnsureSchema(db); err != nil {
			log.Fatalf("[API] Failed to apply schema: %v", err)
		}
		log.Println("[API] Cart store: PostgreSQL")

		carts = cart.NewRegistry(restoreAndPersist(store.NewPostgresCartStore(db)))
	} else {
		log.Println("[API] Cart store: in-memory (DATABASE_URL not set)")
		carts = cart.NewRegistry(nil)
	}

	// Order events are optional too; without brokers checkout still clears
	// the cart, it just has no downstream consumers.
	var publisher checkout.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		publisher = producer
		log.Printf("[API] Order stream: %v topic=%s", cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		log.Println("[API] Order stream: disabled (KAFKA_BROKERS not set)")
	}

	checkoutSvc := checkout.NewService(carts, publisher)
	editor := admin.NewEditor(cfg.AdminEmail, source.Entries())

	router := api.NewRouter(api.RouterConfig{
		Handlers:     api.NewHandlers(source, carts, checkoutSvc, editor),
		AuthHandlers: api.NewAuthHandlers(users, tokens),
		Tokens:       tokens,
		Users:        users,
	})

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
}

// restoreAndPersist wires a cart store into the registry: each new engine is
// replayed from its saved lines, then every later notification writes the
// lines back. Saves are best effort; a cart must never block on the database.
func restoreAndPersist(carts store.CartStore) func(userID string, e *cart.Engine) {
	return func(userID string, e *cart.Engine) {
		cartID := cart.GetCartID(userID)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		lines, err := carts.Load(ctx, cartID)
		if err != nil {
			log.Printf("[API] Failed to load cart %s: %v", cartID, err)
		} else if len(lines) > 0 {
			e.Restore(lines)
		}

		e.Subscribe(func(snap cart.Snapshot) {
			saveCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := carts.Save(saveCtx, cartID, snap.Lines); err != nil {
				log.Printf("[API] Failed to save cart %s: %v", cartID, err)
			}
		})
	}
}
