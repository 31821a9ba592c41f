package main

import (
	"os"

	"github.com/Navarropy/Polypropylene-Price-Scraper/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
