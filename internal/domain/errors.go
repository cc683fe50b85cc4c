package domain

import "errors"

var (
	// ErrBasketNotFound возвращается, если корзина с указанным ID не существует.
	ErrBasketNotFound = errors.New("basket not found")
	// ErrEmptyBasket — попытка оформить заказ по пустой корзине.
	ErrEmptyBasket = errors.New("basket has no items to checkout")
	// ErrBasketInconsistent — корзина ссылается на отсутствующий в каталоге товар.
	// Повторять запрос бессмысленно: данные корзины устарели.
	ErrBasketInconsistent = errors.New("basket references unknown catalog item")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderPersistFailed — ошибка записи заказа в хранилище.
	ErrOrderPersistFailed = errors.New("order persistence failed")
	// Ошибка отсутствующего идентификатора покупателя.
	ErrBuyerRequired = errors.New("buyer_id is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item unit price must be non-negative")
)

// IsCheckoutRejected проверяет, относится ли ошибка к отказам до каких-либо
// побочных эффектов (корзина не найдена, пустая или несогласованная).
func IsCheckoutRejected(err error) bool {
	return errors.Is(err, ErrBasketNotFound) ||
		errors.Is(err, ErrEmptyBasket) ||
		errors.Is(err, ErrBasketInconsistent)
}
