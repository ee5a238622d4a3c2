package main

import (
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/godilite/diagnostico/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
