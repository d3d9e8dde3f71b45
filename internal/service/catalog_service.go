package service

import (
	"context"
	"sort"
	"strings"

	"bakery-backoffice/internal/entity"
)

type ProductStore interface {
	GetProducts(ctx context.Context) ([]entity.Product, error)
}

// CatalogService serves the read-only product catalog view.
type CatalogService struct {
	products ProductStore
}

func NewCatalogService(products ProductStore) *CatalogService {
	return &CatalogService{products: products}
}

type CatalogPage struct {
	Products   []entity.Product `json:"products"`
	Categories []string         `json:"categories"`
	Total      int              `json:"total"`
}

// ListProducts fetches the whole catalog and filters and sorts it in
// memory: search over description and SKU, category filter, sort by
// name, price or category.
func (s *CatalogService) ListProducts(ctx context.Context, search, category, sortBy string) (*CatalogPage, error) {
	products, err := s.products.GetProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading products")
		return nil, err
	}

	categories := productCategories(products)
	filtered := filterProducts(products, search, category)
	sortProducts(filtered, sortBy)

	return &CatalogPage{
		Products:   filtered,
		Categories: categories,
		Total:      len(filtered),
	}, nil
}

func filterProducts(products []entity.Product, search, category string) []entity.Product {
	search = strings.ToLower(strings.TrimSpace(search))
	filtered := make([]entity.Product, 0, len(products))
	for _, product := range products {
		if search != "" {
			matches := strings.Contains(strings.ToLower(product.ProductDescription), search) ||
				strings.Contains(strings.ToLower(product.SKU), search)
			if !matches {
				continue
			}
		}
		if category != "" && category != "all" && product.Category != category {
			continue
		}
		filtered = append(filtered, product)
	}
	return filtered
}

func sortProducts(products []entity.Product, sortBy string) {
	switch sortBy {
	case "price":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case "category":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Category < products[j].Category
		})
	default: // name
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ProductDescription < products[j].ProductDescription
		})
	}
}

func productCategories(products []entity.Product) []string {
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, product := range products {
		if product.Category == "" || seen[product.Category] {
			continue
		}
		seen[product.Category] = true
		categories = append(categories, product.Category)
	}
	sort.Strings(categories)
	return categories
}
