package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"property-service/internal/adapters/dataset"
	logger_adapter "property-service/internal/adapters/logger"
	postgres_adapter "property-service/internal/adapters/postgres"
	rabbitmq_adapter "property-service/internal/adapters/rabbitmq"
	"property-service/internal/adapters/rest"
	"property-service/internal/configs"
	"property-service/internal/constants"
	"property-service/internal/core/port"
	"property-service/internal/core/usecase"
	fluentlogger "property-service/pkg/fluent_logger"
	"property-service/pkg/postgres"
	"property-service/pkg/rabbitmq/rabbitmq_common"
	"property-service/pkg/rabbitmq/rabbitmq_consumer"
	"property-service/pkg/rabbitmq/rabbitmq_producer"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dbPingTimeout   = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App wires every adapter and owns their lifecycle
type App struct {
	config *configs.AppConfig
	logger port.LoggerPort

	dbPool       *pgxpool.Pool
	fluentClient *fluent.Fluent
	connManager  *rabbitmq_common.ConnectionManager
	producer     *rabbitmq_producer.Publisher
	apiServer    *rest.Server

	viewEventsListener port.EventListenerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig}
	if err := app.initLogger(); err != nil {
		return nil, err
	}
	appLogger := app.logger.WithFields(port.Fields{"component": "app"})

	app.dbPool, err = postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL: appConfig.Database.URL,
		MaxConns:    int32(appConfig.Database.MaxConns),
	})
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}
	// an unreachable database only degrades the relational tier
	if err := postgres.Ping(context.Background(), app.dbPool, dbPingTimeout); err != nil {
		appLogger.Warn("PostgreSQL is not reachable yet, relational lookups will fall through", port.Fields{"error": err.Error()})
	} else {
		appLogger.Info("Successfully connected to PostgreSQL pool", nil)
	}

	propertyRepo, err := postgres_adapter.NewPropertyRepository(app.dbPool)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to create property repository: %w", err)
	}
	searchAdapter, err := postgres_adapter.NewPropertySearchAdapter(app.dbPool)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to create property search adapter: %w", err)
	}
	locationRepo, err := postgres_adapter.NewLocationRepository(app.dbPool)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to create location repository: %w", err)
	}
	storeDirectory, err := postgres_adapter.NewStoreDirectory(app.dbPool)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	lookups := []port.PropertyLookupPort{
		postgres_adapter.NewSlugLookup(propertyRepo),
		postgres_adapter.NewIDLookup(propertyRepo),
		dataset.NewCountryLookup(dataset.NewCountryReader(appConfig.Dataset.Dir), appConfig.Dataset.DefaultCountries),
		dataset.NewLegacyLookup(dataset.NewLegacyReader(appConfig.Dataset.LegacyPath)),
	}
	appLogger.Info("All outgoing adapters initialized", port.Fields{"lookups": len(lookups)})

	var viewCounter port.ViewCounterPort = propertyRepo
	if appConfig.ViewCounterMode == configs.ViewCounterModeQueue {
		viewCounter, err = app.initViewEvents(propertyRepo)
		if err != nil {
			app.closeResources()
			return nil, err
		}
		appLogger.Info("View counting goes through RabbitMQ", port.Fields{"queue": constants.QueuePropertyViews})
	}

	resolvePropertyUseCase := usecase.NewResolvePropertyUseCase(lookups, viewCounter, storeDirectory)
	findPropertiesUseCase := usecase.NewFindPropertiesUseCase(searchAdapter)
	getLocationFacetsUseCase, err := usecase.NewGetLocationFacetsUseCase(locationRepo, appConfig.FacetsLocale)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to create location facets use case: %w", err)
	}
	appLogger.Info("All use cases initialized", nil)

	app.apiServer = rest.NewServer(
		appConfig.Rest.PORT,
		appConfig.Rest.CORSAllowedOrigins,
		rest.NewPropertyHandler(findPropertiesUseCase, resolvePropertyUseCase),
		rest.NewLocationHandler(getLocationFacetsUseCase),
		app.logger,
	)

	return app, nil
}

func (a *App) initLogger() error {
	cfg := a.config
	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.IsJSON,
		UseColor: !cfg.StdoutLogger.IsJSON,
	})

	loggers := []port.LoggerPort{stdoutLogger}
	if cfg.FluentBit.Enabled {
		client, err := fluentlogger.NewClient(fluentlogger.Config{Host: cfg.FluentBit.Host, Port: cfg.FluentBit.Port})
		if err != nil {
			return fmt.Errorf("failed to init fluent client: %w", err)
		}
		a.fluentClient = client

		fluentLogger, err := logger_adapter.NewFluentLoggerAdapter(client, cfg.AppName, logger_adapter.ParseLevel(cfg.FluentBit.Level))
		if err != nil {
			a.closeResources()
			return fmt.Errorf("failed to init fluent logger adapter: %w", err)
		}
		loggers = append(loggers, fluentLogger)
	}

	baseLogger, err := logger_adapter.NewMultiloggerAdapter(loggers...)
	if err != nil {
		a.closeResources()
		return fmt.Errorf("failed to init logger: %w", err)
	}
	a.logger = baseLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	return nil
}

// initViewEvents sets up the publisher used by the resolver and the consumer
// that applies the increments through the repository.
func (a *App) initViewEvents(repo port.ViewCounterPort) (port.ViewCounterPort, error) {
	var err error
	bridge := rabbitmq_adapter.NewPkgLoggerBridge(a.logger.WithFields(port.Fields{"component": "rabbitmq"}))

	a.connManager, err = rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: a.config.RabbitMQ.URL}, bridge)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	a.producer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		ExchangeName:             constants.ExchangePropertyEvents,
		ExchangeType:             constants.ExchangePropertyEventsType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   bridge,
	}, a.connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create view events producer: %w", err)
	}

	publisher, err := rabbitmq_adapter.NewViewEventsPublisher(a.producer, constants.RoutingKeyPropertyViewed)
	if err != nil {
		return nil, err
	}

	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		QueueName:     constants.QueuePropertyViews,
		DurableQueue:  true,
		PrefetchCount: 10,
		ConsumerTag:   "property-view-counter",

		ExchangeName: constants.ExchangePropertyEvents,
		ExchangeType: constants.ExchangePropertyEventsType,
		RoutingKeys:  []string{constants.RoutingKeyPropertyViewed},

		EnableRetryMechanism: true,
		RetryExchange:        constants.RetryExchange,
		RetryQueue:           constants.QueuePropertyViewsRetry,
		RetryTTL:             10 * time.Second,
		FinalDLXExchange:     constants.FinalDLXExchange,
		FinalDLQ:             constants.FinalDLQ,
		FinalDLQRoutingKey:   constants.FinalDLQRoutingKey,
		MaxRetries:           3,
	}
	handler := rabbitmq_adapter.NewViewEventsHandler(usecase.NewRecordViewUseCase(repo), a.logger)
	a.viewEventsListener, err = rabbitmq_adapter.NewViewEventsConsumerAdapter(consumerCfg, handler, a.logger, a.connManager)
	if err != nil {
		return nil, err
	}

	return publisher, nil
}

// closeResources releases whatever has been opened so far, in reverse order
func (a *App) closeResources() {
	if a.viewEventsListener != nil {
		if err := a.viewEventsListener.Close(); err != nil {
			a.logError("Error closing view events listener", err)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logError("Error closing view events producer", err)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logError("Error closing RabbitMQ connection", err)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	if a.fluentClient != nil {
		_ = a.fluentClient.Close()
	}
}

func (a *App) logError(msg string, err error) {
	if a.logger != nil {
		a.logger.Error(msg, err, port.Fields{"component": "app"})
	}
}

// Run starts the HTTP server and the optional listener and blocks until a signal or a failure
func (a *App) Run() error {
	appLogger := a.logger.WithFields(port.Fields{"component": "app"})
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup

	defer func() {
		appLogger.Info("Shutdown sequence initiated", nil)

		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.apiServer.Stop(stopCtx); err != nil {
			appLogger.Error("Error stopping api server", err, nil)
		}

		appLogger.Info("Waiting for background processes to finish", nil)
		wg.Wait()

		a.closeResources()
		appLogger.Info("Application shut down gracefully", nil)
	}()

	componentErrors := make(chan error, 2)

	if a.viewEventsListener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			appLogger.Info("Starting view events listener", nil)
			if err := a.viewEventsListener.Start(appCtx); err != nil {
				componentErrors <- fmt.Errorf("view events listener error: %w", err)
				return
			}
			appLogger.Info("View events listener stopped", nil)
		}()
	}

	go func() {
		appLogger.Info("Starting HTTP server", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			componentErrors <- fmt.Errorf("http server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	appLogger.Info("Application running. Waiting for signals", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		appLogger.Info("Received signal, shutting down", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-componentErrors:
		appLogger.Error("A critical component failed, shutting down", runErr, nil)
	}

	cancelApp()
	return runErr
}
