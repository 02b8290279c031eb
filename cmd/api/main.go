package main

import (
	"context"
	"log"

	"github.com/agrikart/fulfillment/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("fulfillment api failed: %v", err)
	}
}
