package models

// Category identifies a spending or income bucket.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryEducation     Category = "education"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryHealth        Category = "health"
	CategoryBills         Category = "bills"
	CategoryIncome        Category = "income"
	CategoryOther         Category = "other"
)

// CategoryInfo describes how a category is shown in the mini-app.
type CategoryInfo struct {
	ID    Category `json:"id"`
	Name  string   `json:"name"`
	Icon  string   `json:"icon"`
	Color string   `json:"color"`
}

var categoryCatalog = []CategoryInfo{
	{ID: CategoryFood, Name: "Ăn uống", Icon: "UtensilsCrossed", Color: "hsl(25, 95%, 53%)"},
	{ID: CategoryEducation, Name: "Học tập", Icon: "GraduationCap", Color: "hsl(217, 91%, 60%)"},
	{ID: CategoryTransport, Name: "Di chuyển", Icon: "Car", Color: "hsl(142, 76%, 36%)"},
	{ID: CategoryEntertainment, Name: "Giải trí", Icon: "Gamepad2", Color: "hsl(280, 87%, 65%)"},
	{ID: CategoryShopping, Name: "Mua sắm", Icon: "ShoppingBag", Color: "hsl(330, 81%, 60%)"},
	{ID: CategoryHealth, Name: "Sức khỏe", Icon: "Heart", Color: "hsl(0, 84%, 60%)"},
	{ID: CategoryBills, Name: "Hóa đơn", Icon: "Receipt", Color: "hsl(45, 93%, 47%)"},
	{ID: CategoryIncome, Name: "Thu nhập", Icon: "Wallet", Color: "hsl(160, 84%, 39%)"},
	{ID: CategoryOther, Name: "Khác", Icon: "MoreHorizontal", Color: "hsl(220, 9%, 46%)"},
}

// Categories returns the catalog in display order. The slice is a copy.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryCatalog))
	copy(out, categoryCatalog)
	return out
}

// AllCategories returns every category id in display order.
func AllCategories() []Category {
	out := make([]Category, len(categoryCatalog))
	for i, c := range categoryCatalog {
		out[i] = c.ID
	}
	return out
}

// Valid reports whether c is a known category id.
func (c Category) Valid() bool {
	for _, info := range categoryCatalog {
		if info.ID == c {
			return true
		}
	}
	return false
}

// Info returns the catalog entry for c. Unknown ids resolve to "other".
func (c Category) Info() CategoryInfo {
	for _, info := range categoryCatalog {
		if info.ID == c {
			return info
		}
	}
	return categoryCatalog[len(categoryCatalog)-1]
}
