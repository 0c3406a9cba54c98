package main

import (
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/bookstore-storefront/internal/backend"
	"github.com/example/bookstore-storefront/internal/cart"
	"github.com/example/bookstore-storefront/internal/checkout"
	"github.com/example/bookstore-storefront/internal/config"
	"github.com/example/bookstore-storefront/internal/feedback"
	"github.com/example/bookstore-storefront/internal/payment"
	"github.com/example/bookstore-storefront/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Storefront] %v", err)
	}

	client := backend.NewClient(cfg.APIHost, cfg.HTTPTimeout)
	confirmer := payment.NewStripeConfirmer(cfg.StripeAPIURL, cfg.StripeKey, cfg.HTTPTimeout)
	basket := cart.New()
	orchestrator := checkout.NewOrchestrator(client, client, confirmer, basket)
	feedbackSvc := feedback.NewService(client)

	app := ui.NewApp(client, basket, orchestrator, feedbackSvc, cfg.CategoryID)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Printf("[Storefront] %v", err)
		os.Exit(1)
	}
}
