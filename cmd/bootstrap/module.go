package bootstrap

import (
	"stayops/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	components.CoreModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
