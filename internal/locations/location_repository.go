package locations

import (
	"fmt"

	"stockroom/internal/repository"
	"stockroom/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type LocationRepository struct {
	repository *repository.Repository
}

func NewLocationRepository(r *repository.Repository) *LocationRepository {
	return &LocationRepository{repository: r}
}

func (r *LocationRepository) GetLocations() ([]models.Location, error) {
	var locations []models.Location
	err := r.repository.GoquDBWrapper.
		Select("id", "name", "address", "city").
		From("locations").
		Order(goqu.I("name").Asc()).
		Executor().ScanStructs(&locations)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}

	return locations, nil
}

func (r *LocationRepository) GetLocation(id int) (*models.Location, error) {
	var location models.Location
	found, err := r.repository.GoquDBWrapper.
		Select("id", "name", "address", "city").
		From("locations").
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&location)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &location, nil
}

func (r *LocationRepository) PersistLocation(location models.Location) (*models.Location, error) {
	query := r.repository.GoquDBWrapper.Insert("locations").
		Rows(goqu.Record{
			"name":    location.Name,
			"address": location.Address,
			"city":    location.City,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&location.ID); err != nil {
		return nil, fmt.Errorf("failed to insert location: %w", err)
	}

	return &location, nil
}
