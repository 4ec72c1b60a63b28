// Command server is the bare API entrypoint for container images. It runs
// what `brewandco serve` runs.
package main

import (
	"log"

	"github.com/shashiranjanraj/brewandco/internal/server"

	_ "github.com/shashiranjanraj/brewandco/database/migrations"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
