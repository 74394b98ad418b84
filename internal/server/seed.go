package server

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// SeedMaster creates the console login from the configured credentials if
// that master does not exist yet. Idempotent across restarts.
func SeedMaster(ctx context.Context, logger *slog.Logger, store Store, email, password string) error {
	_, _, err := store.MasterByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := store.CreateMaster(ctx, email, string(hash)); err != nil {
		return err
	}
	logger.Info("seeded master account", "email", email)
	return nil
}
