package main

import (
	"seatsaga/internal/payments/handler"
	"seatsaga/internal/payments/service"
	"seatsaga/pkg/app"
	"seatsaga/pkg/config"
	"seatsaga/pkg/contracts"
	"seatsaga/pkg/fault"
)

const ServiceName = "payments"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Payments service")

	profile := fault.NewProfile("payments")
	paymentService := service.NewPaymentService(profile, cfg.Log)

	application := app.NewApplication(cfg)
	application.SetApp(contracts.Handlers{
		handler.NewPaymentHandler(paymentService, cfg.Log),
		fault.NewHandler(cfg.Log, profile),
	})
	application.Run()
}
