package menu

type MenuItem struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	BasePrice    Amount        `json:"base_price"`
	Category     string        `json:"category,omitempty"`
	ImageURL     string        `json:"image_url,omitempty"`
	IsAvailable  bool          `json:"is_available"`
	Variations   []Variation   `json:"variations,omitempty"`
	OptionGroups []OptionGroup `json:"option_groups,omitempty"`
}

// Variation is one value of a customization axis such as size.
type Variation struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price Amount `json:"price"`
}

type OptionGroup struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Required      bool     `json:"is_required"`
	MaxSelections int      `json:"max_selections"`
	Options       []Option `json:"options"`
}

type Option struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price Amount `json:"price"`
}

type Branch struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type RestaurantInfo struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Email    string   `json:"email,omitempty"`
	LogoURL  string   `json:"logo_url,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Branches []Branch `json:"branches,omitempty"`
}
