package domain

// FlavorGroup is one section of a bundle: Limit units spread across Options.
type FlavorGroup struct {
	Title        string   `json:"title" yaml:"title"`
	Limit        int      `json:"limit" yaml:"limit"`
	MinSelection int      `json:"minSelection,omitempty" yaml:"minSelection,omitempty"`
	Options      []string `json:"options" yaml:"options"`
}

// MinStep is the quantity an option jumps to when first selected.
func (g FlavorGroup) MinStep() int {
	if g.MinSelection <= 0 {
		return 1
	}
	return g.MinSelection
}

type Customization struct {
	Groups []FlavorGroup `json:"groups" yaml:"groups"`
}

type Product struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Description   string         `json:"description" yaml:"description"`
	Price         int64          `json:"price" yaml:"price"`
	Category      Category       `json:"category" yaml:"category"`
	Image         string         `json:"image" yaml:"image"`
	Customization *Customization `json:"customization,omitempty" yaml:"customization,omitempty"`
}

// IsBundle reports whether the product must be customized before it can be added to a cart.
func (p Product) IsBundle() bool {
	return p.Customization != nil && len(p.Customization.Groups) > 0
}
