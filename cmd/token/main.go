// Command token issues a bearer token for local testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"wingo/internal/auth"
	"wingo/internal/config"
	"wingo/internal/wingo"
)

func main() {
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: token [-ttl 24h] <principal>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is not set")
	}

	tok, err := auth.GenerateToken(wingo.Principal(flag.Arg(0)), cfg.JWTSecret, *ttl)
	if err != nil {
		logrus.WithError(err).Fatal("failed to issue token")
	}
	fmt.Println(tok)
}
