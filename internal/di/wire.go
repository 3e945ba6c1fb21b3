//go:build wireinject
// +build wireinject

package di

import (
	"database/sql"

	"github.com/google/wire"

	"github.com/hobbang/studyhub/config"
	"github.com/hobbang/studyhub/internal/account"
	"github.com/hobbang/studyhub/internal/api"
	"github.com/hobbang/studyhub/internal/email"
)

var AppSet = wire.NewSet(
	account.NewPostgresStore,
	wire.Bind(new(account.Store), new(*account.PostgresStore)),
	wire.Bind(new(account.TxRunner), new(*account.PostgresStore)),
	ProvideTokenGenerator,
	ProvidePasswordHasher,
	ProvideSender,
	wire.Bind(new(account.Notifier), new(*email.Sender)),
	ProvideCountCache,
	ProvideSessionManager,
	account.NewService,
	api.NewServer,
)

func InitializeServer(cfg *config.Config, db *sql.DB) (*api.Server, error) {
	wire.Build(AppSet)
	return &api.Server{}, nil
}
