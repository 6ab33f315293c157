// Command seedadmin creates the initial admin account so a fresh install
// can log in. Idempotent: an existing username is left untouched.
package main

import (
	"context"
	"flag"
	"time"

	"shoptrack/internal/codegen"
	"shoptrack/internal/config"
	"shoptrack/internal/infra"
	"shoptrack/internal/model"
	"shoptrack/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	fullName := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if *password == "" {
		log.Fatal().Msg("-password is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := repository.NewEmployeeRepository(db)
	if existing, err := repo.FindByUsername(ctx, *username); err == nil && existing != nil {
		log.Info().Str("username", *username).Msg("admin already exists, nothing to do")
		return
	}

	code, err := codegen.Generate("EMP", 4, func(c string) (bool, error) {
		return repo.CodeExists(ctx, c)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("generate code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}

	admin := &model.Employee{
		Code:         code,
		Username:     *username,
		FullName:     *fullName,
		PasswordHash: string(hash),
		Role:         "admin",
		Active:       true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("create admin")
	}
	log.Info().Str("username", *username).Str("code", code).Msg("admin created")
}
