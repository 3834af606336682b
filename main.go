package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"producthub/internal/config"
	"producthub/internal/logging"
	"producthub/internal/models"
	"producthub/internal/repositories"
	"producthub/internal/server"
	"producthub/internal/services"
	"producthub/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		envFile string
		cfg     *config.Config
	)

	root := &cobra.Command{
		Use:           "producthub",
		Short:         "ProductHub product catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(envFile)
			if err != nil {
				return err
			}
			_, err = logging.Setup(cfg.Log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file layered under the environment")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	root.RunE = serve.RunE

	root.AddCommand(
		serve,
		&cobra.Command{
			Use:   "seed",
			Short: "Insert demo products into the configured store",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSeed(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "events",
			Short: "Log product events from the queue until interrupted",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runEvents(cmd.Context(), cfg)
			},
		},
	)
	return root
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repositories.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer repo.Close()

	// A nil *rabbitmq.Client must not reach the service as a non-nil interface.
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue})
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	productService := services.NewProductService(repo, publisher, cfg.MaxPageLimit)
	app := server.NewApp(cfg, productService, repo)

	listenErr := make(chan error, 1)
	go func() {
		zap.L().Info("Starting server", zap.String("addr", cfg.Addr()), zap.String("store", cfg.Store.Driver))
		listenErr <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	zap.L().Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		zap.L().Error("Error during Fiber shutdown", zap.Error(err))
	}
	zap.L().Info("Server gracefully stopped")
	return nil
}

func runSeed(ctx context.Context, cfg *config.Config) error {
	repo, err := repositories.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer repo.Close()

	return seedProducts(ctx, repo)
}

// seedProducts populates the product repository with some initial data.
func seedProducts(ctx context.Context, repo repositories.ProductRepository) error {
	products := demoProducts()
	var errs []error
	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			zap.L().Error("Error seeding product", zap.String("name", products[i].Name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		zap.L().Info("Seeded product", zap.String("name", products[i].Name), zap.String("id", products[i].ID))
	}
	return errors.Join(errs...)
}

func demoProducts() []models.Product {
	return []models.Product{
		{Name: "Wireless Earbuds", Image: "https://i.ibb.co/earbuds.png", Category: "Audio", Brand: "Sonix", Price: 59.99},
		{Name: "Bluetooth Speaker", Image: "https://i.ibb.co/speaker.png", Category: "Audio", Brand: "Acme", Price: 49.99},
		{Name: "Mechanical Keyboard", Image: "https://i.ibb.co/keyboard.png", Category: "Accessories", Brand: "Clicky", Price: 75},
		{Name: "Ergonomic Mouse", Image: "https://i.ibb.co/mouse.png", Category: "Accessories", Brand: "Clicky", Price: 25},
		{Name: "Smart Watch", Image: "https://i.ibb.co/watch.png", Category: "Wearables", Brand: "Pulse", Price: 199},
		{Name: "4K Monitor", Image: "https://i.ibb.co/monitor.png", Category: "Displays", Brand: "Vista", Price: 399},
		{Name: "USB-C Hub", Image: "https://i.ibb.co/hub.png", Category: "Accessories", Brand: "Acme", Price: 34.5},
		{Name: "Noise Cancelling Headphones", Image: "https://i.ibb.co/headphones.png", Category: "Audio", Brand: "Sonix", Price: 249},
	}
}

func runEvents(ctx context.Context, cfg *config.Config) error {
	if cfg.RabbitMQ.URL == "" {
		return errors.New("RABBITMQ_URL is not set")
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue})
	if err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
	}
	defer mqClient.Close()

	done, err := mqClient.Consume(logEvent)
	if err != nil {
		return err
	}
	zap.L().Info("Waiting for product events. To exit press CTRL+C", zap.String("queue", mqClient.Queue()))

	select {
	case <-ctx.Done():
	case <-done:
		return errors.New("event queue closed by broker")
	}
	return nil
}

func logEvent(msg amqp.Delivery) error {
	zap.L().Info("Received product event",
		zap.String("type", msg.Type),
		zap.Uint64("delivery_tag", msg.DeliveryTag),
		zap.ByteString("body", msg.Body))
	return nil
}
