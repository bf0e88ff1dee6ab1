package main

import (
	"seatsaga/internal/bootstrap"
	"seatsaga/internal/inventory/handler"
	"seatsaga/internal/inventory/service"
	"seatsaga/pkg/app"
	"seatsaga/pkg/config"
	"seatsaga/pkg/contracts"
	"seatsaga/pkg/fault"
)

const ServiceName = "inventory"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Inventory service")

	profile := fault.NewProfile("inventory")
	inventoryService := service.NewInventoryService(bootstrap.Ledger(cfg), profile, cfg.Log)

	application := app.NewApplication(cfg)
	application.SetApp(contracts.Handlers{
		handler.NewInventoryHandler(inventoryService, cfg.Log),
		fault.NewHandler(cfg.Log, profile),
	}, bootstrap.Checks(cfg)...)
	application.Run()
}
