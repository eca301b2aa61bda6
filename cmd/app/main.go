package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"tripweaver/cmd/fx/controllers_fx"
	"tripweaver/cmd/fx/db_fx"
	"tripweaver/cmd/fx/planner_fx"
	"tripweaver/cmd/fx/pois_fx"
	"tripweaver/cmd/fx/routing_fx"
	"tripweaver/cmd/fx/weather_fx"
	"tripweaver/internal/api/controllers"
	"tripweaver/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	app := fx.New(
		db_fx.Module,
		poisfx.Module,
		routingfx.Module,
		weatherfx.Module,
		plannerfx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Println("Starting HTTP server at ${PORT}")
				if err := engine.Run(":" + os.Getenv("PORT")); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	poisController *controllers.POIsController,
	plannerController *controllers.PlannerController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, poisController, plannerController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	poisController *controllers.POIsController,
	plannerController *controllers.PlannerController) {

	poisGroup := r.Group("/pois")
	poisGroup.GET("", poisController.ListPois)
	poisGroup.GET("/:id", poisController.GetPoiById)

	toursGroup := r.Group("/tours")
	toursGroup.POST("/plan", plannerController.PlanTour)
}
