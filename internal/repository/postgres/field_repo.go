package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fieldbooking/internal/domain"
)

type fieldRepository struct {
	DB *sql.DB
}

func NewFieldRepository(db *sql.DB) domain.FieldRepository {
	return &fieldRepository{
		DB: db,
	}
}

func (r *fieldRepository) GetByID(ctx context.Context, id string) (*domain.Field, error) {
	query := `
		SELECT id, business_name, address, location_lat, location_lng, price_per_player, rating, time_zone
		FROM fields
		WHERE id = $1
	`
	f := &domain.Field{}
	var latNull, lngNull, priceNull, ratingNull sql.NullFloat64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.BusinessName, &f.Address, &latNull, &lngNull, &priceNull, &ratingNull, &f.TimeZone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("field %s not found", id)
		}
		return nil, classify("get field", err)
	}
	if latNull.Valid && lngNull.Valid {
		f.Location = &domain.GeoPoint{Lat: latNull.Float64, Lng: lngNull.Float64}
	}
	if priceNull.Valid {
		f.PricePerPlayer = &priceNull.Float64
	}
	if ratingNull.Valid {
		f.Rating = &ratingNull.Float64
	}
	return f, nil
}
