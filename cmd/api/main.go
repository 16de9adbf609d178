package main

import (
	"os"

	"github.com/cinemor/booking-api/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		os.Exit(1)
	}
}
