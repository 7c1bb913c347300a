package httppresentation

import (
	"time"

	domorder "github.com/abdul-basit780/shop-ease-sub002/internal/domain/order"
)

type selectedOptionResponse struct {
	OptionID string `json:"option_id"`
	TypeName string `json:"type_name"`
	Value    string `json:"value"`
	Price    string `json:"price"`
}

type orderLineResponse struct {
	ProductID string                   `json:"product_id"`
	Name      string                   `json:"name"`
	UnitPrice string                   `json:"unit_price"`
	Quantity  int                      `json:"quantity"`
	Image     string                   `json:"image,omitempty"`
	Options   []selectedOptionResponse `json:"options,omitempty"`
}

type orderResponse struct {
	ID        string              `json:"id"`
	Status    string              `json:"status"`
	Total     string              `json:"total"`
	Address   string              `json:"address"`
	Lines     []orderLineResponse `json:"lines"`
	CreatedAt time.Time           `json:"created_at"`
}

func toOrderResponse(ord *domorder.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(ord.Lines))
	for _, l := range ord.Lines {
		line := orderLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			Image:     l.Image,
		}
		for _, opt := range l.Options {
			line.Options = append(line.Options, selectedOptionResponse{
				OptionID: opt.OptionID,
				TypeName: opt.TypeName,
				Value:    opt.Value,
				Price:    opt.Price.StringFixed(2),
			})
		}
		lines = append(lines, line)
	}
	return orderResponse{
		ID:        ord.ID,
		Status:    string(ord.Status),
		Total:     ord.Total.StringFixed(2),
		Address:   ord.Address,
		Lines:     lines,
		CreatedAt: ord.CreatedAt,
	}
}
