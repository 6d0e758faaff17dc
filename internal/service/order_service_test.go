package service

import (
	"context"
	"errors"
	"testing"

	"dashboard/internal/domain"
	"dashboard/internal/repository"
)

func setup(t *testing.T) (*repository.MemoryStore, *OrderService) {
	t.Helper()
	store := repository.NewMemoryStore()
	return store, NewOrderService(store)
}

func TestToggleStatusTwiceRestores(t *testing.T) {
	ctx := context.Background()
	store, os := setup(t)
	seed(store, repository.Orders, "o1", repository.Document{"name": "Ali", "status": string(domain.OrderStatusInProgress)})

	o, err := os.ToggleStatus(ctx, "o1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if o.Status != domain.OrderStatusCompleted {
		t.Fatalf("expected completed, got %q", o.Status)
	}
	o, err = os.ToggleStatus(ctx, "o1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if o.Status != domain.OrderStatusInProgress {
		t.Fatalf("expected in progress, got %q", o.Status)
	}

	// only status is written
	d, _ := store.Get(ctx, repository.Orders, "o1")
	if d["name"] != "Ali" || d["status"] != string(domain.OrderStatusInProgress) {
		t.Fatalf("unexpected document: %v", d)
	}
}

func TestToggleStatusUnknownBecomesCompleted(t *testing.T) {
	ctx := context.Background()
	store, os := setup(t)
	seed(store, repository.Orders, "o1", repository.Document{"status": string(domain.OrderStatusCancelled)})
	seed(store, repository.Orders, "o2", repository.Document{})

	for _, id := range []string{"o1", "o2"} {
		o, err := os.ToggleStatus(ctx, id)
		if err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
		if o.Status != domain.OrderStatusCompleted {
			t.Fatalf("%s: expected completed, got %q", id, o.Status)
		}
	}
}

func TestToggleStatusMissingOrder(t *testing.T) {
	_, os := setup(t)
	if _, err := os.ToggleStatus(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	store, os := setup(t)
	seed(store, repository.Orders, "o1", repository.Document{"status": string(domain.OrderStatusInProgress)})

	if _, err := os.SetStatus(ctx, "o1", "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	o, err := os.SetStatus(ctx, "o1", domain.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if o.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %q", o.Status)
	}
}

func TestListOrdersFilterAndTotal(t *testing.T) {
	ctx := context.Background()
	store, os := setup(t)
	seed(store, repository.Orders, "o1", repository.Document{
		"name":        "Ali Hassan",
		"phoneNumber": "0599111222",
		"status":      string(domain.OrderStatusCompleted),
		"cartItems": []any{
			map[string]any{"name": "Shirt", "price": 10.0, "quantity": 2},
			map[string]any{"name": "Hat", "price": 5.0, "quantity": 1},
		},
	})
	seed(store, repository.Orders, "o2", repository.Document{
		"name":            "Sara",
		"phoneNumber":     "0566000111",
		"status":          string(domain.OrderStatusInProgress),
		"total":           40.0,
		"addressLocation": "Nablus",
	})

	all, err := os.ListOrders(ctx, OrderFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(all))
	}
	if all[0].Total != 25 {
		t.Fatalf("expected total from items, got %v", all[0].Total)
	}
	if all[1].Total != 40 || all[1].Address.String() != "Nablus" {
		t.Fatalf("unexpected second order: %+v", all[1])
	}

	list, _ := os.ListOrders(ctx, OrderFilter{Search: "ali"})
	if len(list) != 1 || list[0].ID != "o1" {
		t.Fatalf("search by name failed: %+v", list)
	}
	list, _ = os.ListOrders(ctx, OrderFilter{Search: "0566"})
	if len(list) != 1 || list[0].ID != "o2" {
		t.Fatalf("search by phone failed: %+v", list)
	}
	list, _ = os.ListOrders(ctx, OrderFilter{Search: "O2"})
	if len(list) != 1 || list[0].ID != "o2" {
		t.Fatalf("search by order id failed: %+v", list)
	}
	list, _ = os.ListOrders(ctx, OrderFilter{Status: domain.OrderStatusInProgress})
	if len(list) != 1 || list[0].ID != "o2" {
		t.Fatalf("status filter failed: %+v", list)
	}
}
