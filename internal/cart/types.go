package cart

import (
	"fmt"
	"strings"

	"OrderDesk/internal/menu"
)

type Item struct {
	ID                  int64       `json:"id"`
	MenuItemID          int64       `json:"menu_item_id"`
	MenuItemName        string      `json:"menu_item_name,omitempty"`
	VariationID         *int64      `json:"variation_id,omitempty"`
	OptionIDs           []int64     `json:"option_ids,omitempty"`
	Quantity            int         `json:"quantity"`
	UnitPrice           menu.Amount `json:"unit_price"`
	TotalPrice          menu.Amount `json:"total_price"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
}

type Cart struct {
	ID        int64       `json:"id"`
	Items     []Item      `json:"items"`
	ItemCount int         `json:"item_count"`
	Subtotal  menu.Amount `json:"subtotal"`
	Total     menu.Amount `json:"total"`
}

type AddItem struct {
	MenuItemID          int64   `json:"menu_item_id"`
	Quantity            int     `json:"quantity"`
	VariationID         *int64  `json:"variation_id,omitempty"`
	OptionIDs           []int64 `json:"option_ids,omitempty"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
}

// FromSelection turns an options-dialog result into a cart line. Size and
// extras have no backend ids, so they travel in the instructions text.
func FromSelection(s menu.SelectedItem) AddItem {
	notes := make([]string, 0, len(s.Extras)+2)
	if s.Size == menu.SizeLarge {
		notes = append(notes, fmt.Sprintf("Size: %s", s.Size))
	}
	for _, id := range s.Extras {
		for _, e := range menu.Extras {
			if e.ID == id {
				notes = append(notes, e.Name)
			}
		}
	}
	if s.SpecialInstructions != "" {
		notes = append(notes, s.SpecialInstructions)
	}

	qty := s.Quantity
	if qty <= 0 {
		qty = 1
	}
	return AddItem{
		MenuItemID:          s.MenuItemID,
		Quantity:            qty,
		SpecialInstructions: strings.Join(notes, "; "),
	}
}
