package main

import (
	"net/http"
	"time"

	"indiadoors-be/internal/cart"
	"indiadoors-be/internal/config"
	"indiadoors-be/internal/db"
	"indiadoors-be/internal/httpapi"
	"indiadoors-be/internal/invoice"
	"indiadoors-be/internal/logger"
	"indiadoors-be/internal/mailer"
	"indiadoors-be/internal/notify"
	"indiadoors-be/internal/order"
	"indiadoors-be/internal/payment"
	"indiadoors-be/internal/payment/verify"
	"indiadoors-be/internal/pdf"
	"indiadoors-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database, err := db.Open(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	cartRepo := cart.NewRepository(database)

	orderRepo := order.NewRepository(database)
	paymentRepo := payment.NewRepository(database)
	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	orderSvc := order.NewService(orderRepo, paymentRepo, gateway)

	renderer := pdf.NewGotenbergRenderer(cfg.PDFRenderURL)
	invoiceRepo := invoice.NewRepository(database)
	invoiceSvc := invoice.NewService(invoiceRepo, orderRepo, userRepo, renderer, cfg.InvoiceDir)

	sender := mailer.NewZeptoMailer(cfg.ZeptoToken, cfg.ZeptoBounceAddress, cfg.ZeptoBaseURL)
	payloads := notify.NewPayloadBuilder(paymentRepo, orderRepo, userRepo, invoiceRepo, cfg.PublicBaseURL)
	dispatcher := notify.NewDispatcher(payloads, sender, cfg.ZeptoTemplateKey,
		mailer.Recipient{Address: cfg.ZeptoFromAddress, Name: cfg.ZeptoFromName},
		cfg.AdminNotifyEmail,
	)

	verifier := verify.NewService(paymentRepo, cfg.RazorpayKeySecret, cartRepo, invoiceSvc, dispatcher)

	handler := httpapi.NewHandler(userSvc, orderSvc, verifier, dispatcher)
	router := httpapi.NewRouter(handler, cfg.InvoiceDir)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	log.Info("server listening", zap.String("port", port), zap.String("env", cfg.AppEnv))
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
