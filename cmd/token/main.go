package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/yakoovad/flowcraft/internal/auth"
	"github.com/yakoovad/flowcraft/internal/config"
	"github.com/yakoovad/flowcraft/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var (
		subject   string
		tokenType string
	)
	ttl := cfg.Auth.TokenTTL

	flag.StringVar(&subject, "subject", "", "user id the token is issued for")
	flag.StringVar(&tokenType, "type", string(auth.TokenTypeMember), "token type (member, admin)")
	flag.DurationVar(&ttl, "ttl", ttl, "token lifetime")
	flag.Parse()

	if subject == "" {
		fmt.Fprintln(os.Stderr, "Error: -subject is required")
		os.Exit(2)
	}

	tt, err := auth.ParseTokenType(tokenType)
	if err != nil {
		log.Fatal("invalid token type", zap.Error(err))
	}

	if len(cfg.Auth.TokenSecret) < 16 {
		log.Fatal("AUTH_TOKEN_SECRET must be at least 16 characters")
	}

	token, err := auth.NewIssuer(cfg.Auth.TokenSecret).Generate(subject, tt, ttl)
	if err != nil {
		log.Fatal("failed to sign token", zap.Error(err))
	}

	log.Info("token issued", zap.String("subject", subject), zap.String("type", string(tt)), zap.Duration("ttl", ttl))
	fmt.Println(token)
}
