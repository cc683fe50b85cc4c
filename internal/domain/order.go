package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address — адрес доставки, передаётся вызывающей стороной и
// сохраняется вместе с заказом без собственного жизненного цикла.
type Address struct {
	Street  string
	City    string
	State   string
	Country string
	ZipCode string
}

// OrderItem — позиция оформленного заказа. Хранит замороженную копию
// каталожных полей (идентификатор, название, собранный URI картинки),
// поэтому последующие изменения каталога на заказ не влияют.
type OrderItem struct {
	// ID позиции нужен для однозначной идентификации и аудита.
	// Присваивается хранилищем при сохранении заказа.
	ID string
	// CatalogItemID — идентификатор товара в каталоге на момент покупки.
	CatalogItemID int64
	// ProductName — название товара, зафиксированное при оформлении.
	ProductName string
	// PictureURI — собранный URI картинки товара, зафиксированный при оформлении.
	PictureURI string
	// UnitPrice — цена за единицу, зафиксированная при оформлении.
	UnitPrice decimal.Decimal
	// Quantity — количество единиц товара.
	Quantity int32
}

// Order агрегирует оформленный заказ: покупателя, адрес доставки и позиции.
// После успешного сохранения заказ в этом потоке не изменяется.
type Order struct {
	ID        string
	BuyerID   string
	ShipTo    Address
	Items     []OrderItem
	CreatedAt time.Time
}

// Total считает сумму заказа из позиций: qty * unit price.
// Отдельно сумма не хранится.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return total
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.BuyerID == "" {
		errs = append(errs, ErrBuyerRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.UnitPrice.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}

	return errs
}
