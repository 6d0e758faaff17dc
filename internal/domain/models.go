package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Category категория товаров. Ключ документа равен обрезанному имени.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Size вариант размера товара в каноническом виде
type Size struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// UnmarshalJSON принимает и старый формат (строка), и новый ({name, price}).
func (s *Size) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*s = Size{Name: name}
		return nil
	}
	type plain Size
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = Size(p)
	return nil
}

// Product товар магазина
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	Sizes       []Size  `json:"sizes"`
	CategoryID  string  `json:"categoryId"`
	BrandID     string  `json:"brandId,omitempty"`
	Color       string  `json:"color,omitempty"`
	Quantity    int64   `json:"quantity"`
	IsAvailable bool    `json:"isAvailable"`
	ImageURL    string  `json:"imageURL"`
}

// FinalPrice цена с учётом скидки в процентах
func (p Product) FinalPrice() float64 {
	return p.Price - p.Price*p.Discount/100
}

// Brand торговая марка, привязанная к категории
type Brand struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl"`
	CategoryID string `json:"categoryId"`
}

// Color цвет. Участники вычисляются обратным поиском по product.color.
type Color struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ColorCode  string `json:"colorCode,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
}

// OrderStatus статус заказа. Хранится как свободный текст.
type OrderStatus string

const (
	OrderStatusCompleted  OrderStatus = "مكتمل"
	OrderStatusInProgress OrderStatus = "قيد التنفيذ"
	OrderStatusCancelled  OrderStatus = "ملغي"
)

// Toggle переключает статус между «выполнен» и «в работе».
// Любой другой статус переводится в «выполнен».
func (s OrderStatus) Toggle() OrderStatus {
	if s == OrderStatusCompleted {
		return OrderStatusInProgress
	}
	return OrderStatusCompleted
}

// Address адрес доставки. Text хранит старый плоский формат addressLocation.
type Address struct {
	Area    string `json:"area,omitempty"`
	City    string `json:"city,omitempty"`
	Street  string `json:"street,omitempty"`
	Village string `json:"village,omitempty"`
	Text    string `json:"text,omitempty"`
}

func (a Address) String() string {
	if a.Text != "" {
		return a.Text
	}
	parts := make([]string, 0, 4)
	for _, p := range []string{a.City, a.Area, a.Village, a.Street} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// CartItem позиция корзины в заказе
type CartItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// Order заказ клиента. Неизменяем, кроме статуса.
type Order struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	PhoneNumber string      `json:"phoneNumber"`
	Address     Address     `json:"address"`
	Status      OrderStatus `json:"status"`
	Total       float64     `json:"total"`
	CartItems   []CartItem  `json:"cartItems"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
}

// UnmarshalJSON приводит обе версии схемы адреса к Address.
func (o *Order) UnmarshalJSON(b []byte) error {
	type plain Order
	var raw struct {
		plain
		Address         json.RawMessage `json:"address"`
		AddressLocation string          `json:"addressLocation"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*o = Order(raw.plain)
	o.Address = Address{}
	if len(raw.Address) > 0 && string(raw.Address) != "null" {
		var text string
		if err := json.Unmarshal(raw.Address, &text); err == nil {
			o.Address.Text = text
		} else if err := json.Unmarshal(raw.Address, &o.Address); err != nil {
			return err
		}
	}
	if o.Address == (Address{}) && raw.AddressLocation != "" {
		o.Address.Text = raw.AddressLocation
	}
	return nil
}

// ItemsTotal сумма по позициям корзины
func (o Order) ItemsTotal() float64 {
	var sum float64
	for _, it := range o.CartItems {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// PromoImage рекламный баннер
type PromoImage struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

// SocialLink ссылка на соцсеть магазина
type SocialLink struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url"`
}
