//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/Merctxt/contrl-financeiro/internal/app"
)

func InitializeApp() (*app.App, error) {
	panic(wire.Build(
		ConfigSet,
		ObservabilitySet,
		DatabaseSet,
		RepositorySet,
		SecuritySet,
		ServiceSet,
		HTTPSet,
		AppSet,
	))
}
