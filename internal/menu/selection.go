package menu

import (
	"errors"
	"strconv"
	"strings"
)

type Size string

const (
	SizeRegular Size = "regular"
	SizeLarge   Size = "large"
)

const (
	largeMultiplier = 1.5
	extraUnitPrice  = 1.00
)

type Extra struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Extras is the add-on catalog offered in the item options dialog.
var Extras = []Extra{
	{ID: "extra-cheese", Name: "Extra Cheese", Price: extraUnitPrice},
}

var (
	ErrNotOpen      = errors.New("selection is not open")
	ErrUnknownSize  = errors.New("unknown size")
	ErrUnknownExtra = errors.New("unknown extra")
)

// ItemTotal prices one configured item: base × 1.5 for large, plus 1.00 per
// extra, formatted with two decimals. Float arithmetic, no rounding rules.
func ItemTotal(basePrice string, size Size, extras int) string {
	total := ParseNumber(basePrice)
	if size == SizeLarge {
		total *= largeMultiplier
	}
	total += float64(extras) * extraUnitPrice
	return strconv.FormatFloat(total, 'f', 2, 64)
}

type State int

const (
	StateClosed State = iota
	StateOpen
)

// SelectedItem is what the options dialog hands to the cart.
type SelectedItem struct {
	MenuItemID          int64    `json:"menu_item_id"`
	Name                string   `json:"name"`
	Size                Size     `json:"size"`
	Extras              []string `json:"extras"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`
	Quantity            int      `json:"quantity"`
	Total               string   `json:"total"`
}

// Selection is the per-dialog state: closed until opened, then independent
// size/extras/notes toggles until Cancel or AddToCart closes it again.
// Not safe for concurrent use.
type Selection struct {
	item   MenuItem
	state  State
	size   Size
	extras map[string]bool
	notes  string
}

func NewSelection(item MenuItem) *Selection {
	return &Selection{item: item}
}

func (s *Selection) State() State { return s.state }

// Open starts from defaults every time.
func (s *Selection) Open() {
	s.state = StateOpen
	s.size = SizeRegular
	s.extras = make(map[string]bool)
	s.notes = ""
}

func (s *Selection) SetSize(size Size) error {
	if s.state != StateOpen {
		return ErrNotOpen
	}
	if size != SizeRegular && size != SizeLarge {
		return ErrUnknownSize
	}
	s.size = size
	return nil
}

func (s *Selection) ToggleExtra(id string) error {
	if s.state != StateOpen {
		return ErrNotOpen
	}
	if !knownExtra(id) {
		return ErrUnknownExtra
	}
	if s.extras[id] {
		delete(s.extras, id)
	} else {
		s.extras[id] = true
	}
	return nil
}

func (s *Selection) SetNotes(notes string) error {
	if s.state != StateOpen {
		return ErrNotOpen
	}
	s.notes = strings.TrimSpace(notes)
	return nil
}

func (s *Selection) Total() string {
	return ItemTotal(string(s.item.BasePrice), s.size, len(s.extras))
}

// Cancel discards all choices.
func (s *Selection) Cancel() {
	s.state = StateClosed
	s.size = ""
	s.extras = nil
	s.notes = ""
}

func (s *Selection) AddToCart() (SelectedItem, error) {
	if s.state != StateOpen {
		return SelectedItem{}, ErrNotOpen
	}

	out := SelectedItem{
		MenuItemID:          s.item.ID,
		Name:                s.item.Name,
		Size:                s.size,
		Extras:              s.selectedExtras(),
		SpecialInstructions: s.notes,
		Quantity:            1,
		Total:               s.Total(),
	}
	s.Cancel()
	return out, nil
}

// selectedExtras keeps catalog order.
func (s *Selection) selectedExtras() []string {
	out := make([]string, 0, len(s.extras))
	for _, e := range Extras {
		if s.extras[e.ID] {
			out = append(out, e.ID)
		}
	}
	return out
}

func knownExtra(id string) bool {
	for _, e := range Extras {
		if e.ID == id {
			return true
		}
	}
	return false
}
