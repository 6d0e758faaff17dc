package service

import (
	"context"

	"dashboard/internal/domain"
	"dashboard/internal/repository"
)

// Stats сводка для главной страницы панели
type Stats struct {
	Orders     int     `json:"orders"`
	Revenue    float64 `json:"revenue"`
	Products   int     `json:"products"`
	Categories int     `json:"categories"`
}

// StatsService считает сводку по полным выборкам коллекций
type StatsService struct {
	orders     *repository.Entities[domain.Order]
	products   *repository.Entities[domain.Product]
	categories *repository.Entities[domain.Category]
}

func NewStatsService(store repository.DocumentStore) *StatsService {
	return &StatsService{
		orders:     repository.NewEntities[domain.Order](store, repository.Orders),
		products:   repository.NewEntities[domain.Product](store, repository.Products),
		categories: repository.NewEntities[domain.Category](store, repository.Categories),
	}
}

// Summary число заказов, выручка по всем заказам, число товаров и категорий.
// Выручка учитывает заказы любого статуса.
func (s *StatsService) Summary(ctx context.Context) (Stats, error) {
	var st Stats
	orders, err := s.orders.List(ctx)
	if err != nil {
		return st, err
	}
	st.Orders = len(orders)
	for _, o := range orders {
		st.Revenue += withTotal(o).Total
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return st, err
	}
	st.Products = len(products)
	categories, err := s.categories.List(ctx)
	if err != nil {
		return st, err
	}
	st.Categories = len(categories)
	return st, nil
}
