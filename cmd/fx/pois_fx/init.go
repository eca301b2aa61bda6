package poisfx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripweaver/internal/repositories"
	"tripweaver/internal/services"
)

var Module = fx.Provide(
	providePoisRepo, providePoisService)

func providePoisRepo(db *gorm.DB) repositories.POIRepository {
	return repositories.NewPOIRepository(db)
}

func providePoisService(poiRepo repositories.POIRepository) services.POIServiceInterface {
	return services.NewPoiService(poiRepo)
}
