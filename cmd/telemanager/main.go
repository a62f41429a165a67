package main

import (
	"log"

	"github.com/MrSnakeDoc/telemanager/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ telemanager failed to start: %v", err)
	}
}
