package main

import (
	"github.com/dayoung/bookdam/internal/config"
	"github.com/dayoung/bookdam/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()
	entrypoint.Run(cfg, Version)
}
