package main

import (
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/portaudit/checklist-scoring/internal/cli"
)

func main() {
	_ = godotenv.Load(".env")

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
