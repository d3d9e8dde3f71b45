package service

import (
	"context"
	"strings"

	"bakery-backoffice/internal/entity"
)

// listFetchLimit matches the source's "fetch plenty, filter client-side"
// approach. Known simplification: the whole window is reloaded and
// filtered in memory on every request.
const listFetchLimit = 1000

const defaultPageSize = 20

type ListQuery struct {
	Search string
	Status string
	Page   int
	Limit  int
}

type OrderPage struct {
	Orders     []entity.Order `json:"orders"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

// ListOrders loads the recent order window and applies search, status
// filter and pagination over the fetched set.
func (s *OrderService) ListOrders(ctx context.Context, q ListQuery) (*OrderPage, error) {
	orders, err := s.orders.GetOrders(ctx, listFetchLimit)
	if err != nil {
		logger.Error().Err(err).Msg("Error loading orders")
		return nil, err
	}

	filtered := filterOrders(orders, q.Search, q.Status)

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}

	totalPages := (len(filtered) + q.Limit - 1) / q.Limit
	start := (q.Page - 1) * q.Limit
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + q.Limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return &OrderPage{
		Orders:     filtered[start:end],
		Total:      len(filtered),
		Page:       q.Page,
		TotalPages: totalPages,
	}, nil
}

// filterOrders matches the search term against the order code, the full
// customer name and the email, case-insensitively, and applies the
// status filter ("" or "all" means every status).
func filterOrders(orders []entity.Order, search, status string) []entity.Order {
	search = strings.ToLower(strings.TrimSpace(search))
	filtered := make([]entity.Order, 0, len(orders))
	for _, order := range orders {
		if search != "" {
			name := strings.ToLower(order.CustomerFirstName + " " + order.CustomerLastName)
			matches := strings.Contains(strings.ToLower(order.OrderID), search) ||
				strings.Contains(name, search) ||
				strings.Contains(strings.ToLower(order.Email), search)
			if !matches {
				continue
			}
		}
		if status != "" && status != "all" && order.Status != status {
			continue
		}
		filtered = append(filtered, order)
	}
	return filtered
}
