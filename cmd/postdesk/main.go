package main

import (
	"context"
	"log"
	_ "time/tzdata" // schedule times are parsed in the browser's IANA zone

	"github.com/dalemusser/postdesk/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
