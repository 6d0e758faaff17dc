package service

import (
	"context"
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/repository"
)

// OrderFilter поиск по имени, номеру заказа или телефону и фильтр по статусу
type OrderFilter struct {
	Search string
	Status domain.OrderStatus
}

func (f OrderFilter) match(o domain.Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	for _, field := range []string{o.Name, o.ID, o.PhoneNumber} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// OrderService заказы: просмотр и смена статуса. Остальные поля заказа неизменяемы.
type OrderService struct {
	orders *repository.Entities[domain.Order]
}

func NewOrderService(store repository.DocumentStore) *OrderService {
	return &OrderService{orders: repository.NewEntities[domain.Order](store, repository.Orders)}
}

func withTotal(o domain.Order) domain.Order {
	if o.Total == 0 {
		o.Total = o.ItemsTotal()
	}
	return o
}

// ListOrders все заказы, прошедшие фильтр
func (s *OrderService) ListOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(all))
	for _, o := range all {
		if f.match(o) {
			out = append(out, withTotal(o))
		}
	}
	return out, nil
}

// GetOrder возвращает заказ по id
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := withTotal(*o)
	return &cp, nil
}

// ToggleStatus переключает «выполнен» <-> «в работе». Прямая перезапись поля, без истории.
func (s *OrderService) ToggleStatus(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, o, o.Status.Toggle())
}

// SetStatus записывает произвольный статус, в том числе «отменён»
func (s *OrderService) SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	status = domain.OrderStatus(strings.TrimSpace(string(status)))
	if status == "" {
		return nil, ErrInvalidInput
	}
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, o, status)
}

func (s *OrderService) write(ctx context.Context, o *domain.Order, status domain.OrderStatus) (*domain.Order, error) {
	if err := s.orders.Update(ctx, o.ID, repository.Document{"status": string(status)}); err != nil {
		return nil, err
	}
	o.Status = status
	return o, nil
}
