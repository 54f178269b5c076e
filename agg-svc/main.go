package main

import (
	"context"
	"log"

	"comanda/config"

	httpapi "comanda/agg-svc/internal/api/http"
	"comanda/agg-svc/internal/service"
	"comanda/agg-svc/internal/storage"
)

func main() {
	config.LoadEnv()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	store := storage.NewStore(db, rdb)
	if err := store.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	topic := config.Getenv("KAFKA_TOPIC", "order-events")
	reader := config.NewKafkaReader(topic, "agg-svc")
	defer reader.Close()

	consumer := service.NewConsumer(reader, store)
	go consumer.Start(context.Background())

	handler := httpapi.NewHandler(store)
	httpapi.StartServer(":"+config.Getenv("PORT", "8081"), httpapi.NewRouter(handler))
}
