package main

import (
	"log"
	"os"
	"time"

	"comanda/config"
	httpapi "comanda/order-svc/internal/api/http"
	"comanda/order-svc/internal/assistant"
	"comanda/order-svc/internal/gateway"
	"comanda/order-svc/internal/service"
	"comanda/order-svc/internal/storage"
	"comanda/order-svc/internal/whatsapp"
)

const (
	webhookMarkerTTL = 24 * time.Hour

	// Checkout sessions live 30 minutes on the gateway; anything still
	// PROCESSING after an hour was abandoned.
	stalePaymentAge   = time.Hour
	stalePaymentSweep = 10 * time.Minute
)

func main() {
	config.LoadEnv()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter(config.Getenv("KAFKA_TOPIC", "order-events"))
	defer kafkaWriter.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	cache := storage.NewRedisCache(rdb, webhookMarkerTTL)
	publisher := storage.NewKafkaPublisher(kafkaWriter)

	stripeClient := gateway.NewStripeClient(
		os.Getenv("STRIPE_API_KEY"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"),
		config.Getenv("STRIPE_SUCCESS_URL", "https://example.com/pago/exitoso"),
		config.Getenv("STRIPE_CANCEL_URL", "https://example.com/pago/cancelado"),
	)
	twilioClient := whatsapp.NewTwilioClient(
		os.Getenv("TWILIO_ACCOUNT_SID"),
		os.Getenv("TWILIO_AUTH_TOKEN"),
	)
	assistantClient := assistant.NewOpenAIAssistant(os.Getenv("OPENAI_API_KEY"))

	orderSvc := service.NewOrderService(repo)
	tableSvc := service.NewTableService(repo)
	processor := service.NewOrderProcessingService(repo, repo, repo, repo, repo, publisher)
	paymentSvc := service.NewPaymentService(repo, orderSvc, stripeClient, publisher)
	webhookSvc := service.NewWebhookService(stripeClient, paymentSvc, orderSvc, cache)
	conversationSvc := service.NewConversationService(twilioClient, assistantClient, repo, repo, tableSvc, processor)

	go func() {
		ticker := time.NewTicker(stalePaymentSweep)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := paymentSvc.ExpireStaleProcessing(stalePaymentAge); err != nil {
				log.Printf("[order-svc] stale payment sweep failed: %v", err)
			}
		}
	}()

	handler := &httpapi.Handler{
		Restaurants:  service.NewRestaurantService(repo),
		Branches:     service.NewBranchService(repo),
		Menus:        service.NewMenuService(repo),
		Products:     service.NewProductService(repo),
		Tables:       tableSvc,
		Orders:       orderSvc,
		Processor:    processor,
		Payments:     paymentSvc,
		Webhooks:     webhookSvc,
		Conversation: conversationSvc,
		QR:           service.DefaultQRGenerator{},
	}

	httpapi.StartServer(":"+config.Getenv("PORT", "8080"), httpapi.NewRouter(handler))
}
