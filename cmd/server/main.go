// Command server runs the moltar HTTP API.
package main

import (
	"context"
	"log"

	"github.com/moltar-social/moltar-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
