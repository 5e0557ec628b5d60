package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/omnipos-pos-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.CustomerDiscount, error) {
	var discounts []model.CustomerDiscount
	query := `SELECT customer_type, percentage, updated_at FROM customer_type_discounts ORDER BY customer_type`
	if err := r.DB.SelectContext(ctx, &discounts, query); err != nil {
		return nil, err
	}
	return discounts, nil
}

func (r *PGRepository) Upsert(ctx context.Context, d *model.CustomerDiscount) error {
	query := `
        INSERT INTO customer_type_discounts (customer_type, percentage, updated_at)
        VALUES (:customer_type, :percentage, :updated_at)
        ON CONFLICT (customer_type)
        DO UPDATE SET percentage = EXCLUDED.percentage, updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, d)
	return err
}
