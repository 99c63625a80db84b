package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/doctorpiscinas/storefront-backend/pkg/config"
	"github.com/doctorpiscinas/storefront-backend/pkg/logger"
	"github.com/doctorpiscinas/storefront-backend/pkg/security"
)

// hashpw prints an argon2id hash suitable for DRPS_ADMIN_PASSWORD_HASH.
// The password is read from -password or, when omitted, from stdin.
func main() {
	logg := logger.New(logger.Options{ServiceName: "hashpw"})
	password := flag.String("password", "", "plain-text password (reads stdin when empty)")
	flag.Parse()

	var cfg config.PasswordConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logg.Error(context.Background(), "failed to load argon settings", err)
		os.Exit(1)
	}

	plain := *password
	if plain == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			logg.Error(context.Background(), "failed to read password", err)
			os.Exit(1)
		}
		plain = strings.TrimRight(line, "\r\n")
	}

	hash, err := security.HashPassword(plain, cfg)
	if err != nil {
		logg.Error(context.Background(), "failed to hash password", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
