package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"tripweaver/internal/models/db_models"
	"tripweaver/internal/models/request_models"
	"tripweaver/internal/models/response_models"
	"tripweaver/internal/repositories"
	"tripweaver/pkg/utils"
)

type POIServiceInterface interface {
	GetPOIById(id string, ctx context.Context) (response_models.POI, error)
	CreatePois(pois request_models.CreatePoiRequest, ctx context.Context) error
	DeletePoi(id uuid.UUID, ctx context.Context) error
	ListPois(ctx context.Context, page, pageSize int) ([]response_models.POI, error)
}

type PoiService struct {
	poiRepository repositories.POIRepository
}

func NewPoiService(poiRepository repositories.POIRepository) POIServiceInterface {
	return &PoiService{poiRepository: poiRepository}
}

func (p *PoiService) ListPois(ctx context.Context, page, pageSize int) ([]response_models.POI, error) {

	pois, err := p.poiRepository.List(ctx, page, pageSize)
	if err != nil {
		log.Printf("Error listing POIs: %v", err)
		return nil, utils.ErrDatabaseError
	}

	poiResponses := make([]response_models.POI, 0, len(pois))
	for i := range pois {
		poiResponses = append(poiResponses, toPOIResponse(&pois[i]))
	}
	return poiResponses, nil
}

func (p *PoiService) DeletePoi(id uuid.UUID, ctx context.Context) error {

	existingPOI, err := p.poiRepository.GetByIDWithDetails(ctx, id.String())
	if err != nil {
		log.Printf("Error fetching POI: %v", err)
		return utils.ErrDatabaseError
	}

	if existingPOI == nil {
		return utils.ErrPOINotFound
	}

	if err := p.poiRepository.Delete(ctx, id); err != nil {
		log.Printf("Error deleting POI: %v", err)
		return utils.ErrDatabaseError
	}

	return nil
}

func (p *PoiService) CreatePois(pois request_models.CreatePoiRequest, ctx context.Context) error {

	newPOI := &db_models.POI{
		Name:             pois.Name,
		Latitude:         pois.Latitude,
		Longitude:        pois.Longitude,
		Address:          pois.Address,
		Category:         pois.Category,
		Kind:             pois.Kind,
		VisitDurationMin: pois.VisitDurationMin,
		PreferredTime:    pois.PreferredTime,
		OpeningHours:     pois.OpeningHours,
		SeasonStart:      pois.SeasonStart,
		SeasonEnd:        pois.SeasonEnd,
	}
	if newPOI.Kind == "" {
		newPOI.Kind = db_models.KindUnconstrained
	}
	if newPOI.PreferredTime == "" {
		newPOI.PreferredTime = db_models.PreferEither
	}
	for _, tag := range pois.Tags {
		newPOI.Tags = append(newPOI.Tags, db_models.Tag{EnName: tag})
	}

	if _, err := p.poiRepository.CreatePoi(ctx, newPOI); err != nil {
		log.Printf("Error creating POI: %v", err)

		return utils.ErrDatabaseError
	}

	return nil
}

func (p *PoiService) GetPOIById(id string, ctx context.Context) (response_models.POI, error) {
	poi, err := p.poiRepository.GetByIDWithDetails(ctx, id)
	if err != nil {
		return response_models.POI{}, utils.ErrDatabaseError
	}

	if poi == nil {
		return response_models.POI{}, utils.ErrPOINotFound
	}

	return toPOIResponse(poi), nil
}

func toPOIResponse(poi *db_models.POI) response_models.POI {
	var poiDetails *response_models.PoiDetails
	if poi.Details.ID != uuid.Nil {
		poiDetails = &response_models.PoiDetails{
			ID:          poi.Details.ID.String(),
			Description: poi.Details.Description,
			Image:       poi.Details.Images,
		}
	}

	return response_models.POI{
		ID:               poi.ID.String(),
		Name:             poi.Name,
		Latitude:         poi.Latitude,
		Longitude:        poi.Longitude,
		Address:          poi.Address,
		Category:         poi.Category,
		Kind:             poi.Kind,
		VisitDurationMin: poi.VisitMinutes(),
		PreferredTime:    poi.PreferredTime,
		OpeningHours:     poi.OpeningHours,
		SeasonStart:      poi.SeasonStart,
		SeasonEnd:        poi.SeasonEnd,
		Tags:             poi.TagNames(),
		PoiDetails:       poiDetails,
	}
}
