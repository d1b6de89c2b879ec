package statuses

import (
	"fmt"

	"stockroom/internal/repository"
	custom_error "stockroom/pkg/errors"
	"stockroom/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type StatusRepository interface {
	GetStatusLabels() ([]models.StatusLabel, error)
	GetStatusLabel(id int) (*models.StatusLabel, error)
	PersistStatusLabel(name string, statusType string) (*models.StatusLabel, error)
}

type statusRepositoryImpl struct {
	repository *repository.Repository
}

func NewStatusRepository(r *repository.Repository) StatusRepository {
	return &statusRepositoryImpl{repository: r}
}

func (r *statusRepositoryImpl) GetStatusLabels() ([]models.StatusLabel, error) {
	var labels []models.StatusLabel
	err := r.repository.GoquDBWrapper.
		Select("id", "name", "type").
		From("status_labels").
		Order(goqu.I("name").Asc()).
		Executor().ScanStructs(&labels)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status labels: %w", err)
	}

	return labels, nil
}

func (r *statusRepositoryImpl) GetStatusLabel(id int) (*models.StatusLabel, error) {
	var label models.StatusLabel
	found, err := r.repository.GoquDBWrapper.
		Select("id", "name", "type").
		From("status_labels").
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&label)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status label: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &label, nil
}

func (r *statusRepositoryImpl) PersistStatusLabel(name string, statusType string) (*models.StatusLabel, error) {
	label := models.StatusLabel{Name: name, Type: statusType}

	query := r.repository.GoquDBWrapper.Insert("status_labels").
		Rows(goqu.Record{
			"name": name,
			"type": statusType,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&label.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Duplicate status label name", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert status label: %w", err)
	}

	return &label, nil
}
