package postgres

import (
	"context"
	"fmt"

	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/repository"
)

type plantRepository struct {
	db *DB
}

func NewPlantRepository(db *DB) repository.PlantRepository {
	return &plantRepository{db: db}
}

func (r *plantRepository) ListPlants(ctx context.Context) ([]domain.Plant, error) {
	query := `
		SELECT
			TRIM(plant) AS plant,
			COALESCE(NULLIF(TRIM(plant_name_1), ''), TRIM(plant)) AS plant_name
		FROM themall_poc.d_plant_master
		ORDER BY plant
	`

	var plants []domain.Plant
	if err := r.db.SelectContext(ctx, &plants, query); err != nil {
		return nil, fmt.Errorf("error fetching plants: %w", err)
	}

	return plants, nil
}
