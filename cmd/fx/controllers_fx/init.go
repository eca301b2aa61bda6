package controllers_fx

import (
	"go.uber.org/fx"
	"tripweaver/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewPOIsController),
	fx.Provide(controllers.NewPlannerController))
