package repository

import (
	"context"
	"database/sql"

	"bakery-backoffice/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetProducts(ctx context.Context) ([]entity.Product, error) {
	query := `SELECT id, product_description, sku, category, price, active
		FROM bakery_products_lookup ORDER BY product_description`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]entity.Product, 0)
	for rows.Next() {
		product := entity.Product{}
		err := rows.Scan(&product.ID, &product.ProductDescription, &product.SKU,
			&product.Category, &product.Price, &product.Active)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
