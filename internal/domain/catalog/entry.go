package catalog

// Category is one of the fixed menu categories
type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
	CategoryDrinks    Category = "drinks"
	CategoryIceCream  Category = "ice-cream"
	CategorySweets    Category = "sweets"
	CategoryCakes     Category = "cakes"
	CategoryFastFood  Category = "fast-food"
	CategorySnacks    Category = "snacks"
)

// Categories lists all categories in display order
var Categories = []Category{
	CategoryBreakfast,
	CategoryLunch,
	CategoryDinner,
	CategoryDrinks,
	CategoryIceCream,
	CategorySweets,
	CategoryCakes,
	CategoryFastFood,
	CategorySnacks,
}

// ValidCategory reports whether c is one of the fixed categories
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Entry is one sellable menu item
type Entry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Image       string   `json:"image"`
	Rating      float64  `json:"rating"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`
	IsVeg       bool     `json:"is_veg"`
}
