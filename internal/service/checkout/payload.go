package checkout

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// orderPayload — каноническое JSON-представление заказа для внешних
// получателей. Сериализуется ровно один раз на оформление: оба издателя
// получают один и тот же байтовый срез.
type orderPayload struct {
	ID        string             `json:"id"`
	BuyerID   string             `json:"buyer_id"`
	ShipTo    addressPayload     `json:"ship_to"`
	Items     []orderItemPayload `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
}

type addressPayload struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country"`
	ZipCode string `json:"zip_code"`
}

type orderItemPayload struct {
	CatalogItemID int64           `json:"catalog_item_id"`
	ProductName   string          `json:"product_name"`
	PictureURI    string          `json:"picture_uri,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int32           `json:"quantity"`
}

// EncodeOrderPayload сериализует сохранённый заказ в канонический JSON.
// Повторная сериализация того же заказа даёт байт-в-байт тот же результат.
func EncodeOrderPayload(order domain.Order) ([]byte, error) {
	items := make([]orderItemPayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemPayload{
			CatalogItemID: item.CatalogItemID,
			ProductName:   item.ProductName,
			PictureURI:    item.PictureURI,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
		})
	}

	return json.Marshal(orderPayload{
		ID:      order.ID,
		BuyerID: order.BuyerID,
		ShipTo: addressPayload{
			Street:  order.ShipTo.Street,
			City:    order.ShipTo.City,
			State:   order.ShipTo.State,
			Country: order.ShipTo.Country,
			ZipCode: order.ShipTo.ZipCode,
		},
		Items:     items,
		Total:     order.Total(),
		CreatedAt: order.CreatedAt,
	})
}
