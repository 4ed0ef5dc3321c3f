package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/audit"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/config"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/database"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/events"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/form"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/httpx"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/mq"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/observability"
	"github.com/Monzur-Hasan/Dynamic-Form-Builder-Api/internal/optionset"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.PostgresDSN)

	if err := db.AutoMigrate(
		&form.Form{},
		&form.Field{},
		&optionset.OptionSet{},
		&optionset.OptionValue{},
		&audit.Entry{},
	); err != nil {
		log.Fatalf("form builder: failed to run migrations: %v", err)
	}

	var publisher *events.Publisher
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer, err := mq.NewProducer(mq.ProducerConfig{
			Brokers:  brokers,
			Topic:    cfg.KafkaTopic,
			ClientID: cfg.ServiceName,
		})
		if err != nil {
			log.Fatalf("form builder: failed to initialize producer: %v", err)
		}
		publisher = events.NewPublisher(producer)
	}

	var recorder *audit.Recorder
	if cfg.AuditEnabled {
		recorder = audit.NewRecorder(db)
	}

	formHandler := form.NewHandler(form.NewGormRepository(db), publisher, recorder)
	optionSetHandler := optionset.NewHandler(optionset.NewGormRepository(db), publisher, recorder)

	server := httpx.New(observability.Middleware)
	observability.RegisterMetricsEndpoint(server.Router)

	server.Router.Route("/api", func(api chi.Router) {
		formHandler.Mount(api, "/forms")
		optionSetHandler.Mount(api, "/option-sets")
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := cfg.ResolveHTTPPort("8080")
	addr := fmt.Sprintf(":%s", port)
	log.Printf("form builder listening on %s", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("form builder stopped: %v", err)
		}
	case <-ctx.Done():
		log.Print("form builder shutting down")
		if err := server.Shutdown(context.Background()); err != nil {
			log.Printf("form builder shutdown error: %v", err)
		}
		if err := publisher.Close(); err != nil {
			log.Printf("form builder producer close error: %v", err)
		}
	}
}
