package domain

import "strings"

// Category groups menu products for browsing.
type Category string

const (
	CategoryChicken    Category = "Pollo"
	CategorySandwiches Category = "Sándwiches"
	CategorySides      Category = "Guarniciones"
	CategoryDrinks     Category = "Bebidas"
	CategoryPromos     Category = "Promociones"
)

// DisplayCategories lists categories in the order the menu renders them.
var DisplayCategories = []Category{
	CategoryChicken,
	CategorySandwiches,
	CategorySides,
	CategoryDrinks,
	CategoryPromos,
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range DisplayCategories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// IsComplement reports whether products of the category are suggested as add-ons.
func (c Category) IsComplement() bool {
	return c == CategoryDrinks || c == CategorySides
}
