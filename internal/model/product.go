package model

import "github.com/lib/pq"

// Menu categories a product is filed under on the storefront.
const (
	CategoryTraditionalIrish = "TRADITIONAL_IRISH"
	CategoryHealthy          = "HEALTHY"
	CategoryVegetarian       = "VEGETARIAN"
	CategorySeafood          = "SEAFOOD"
	CategoryComfortFood      = "COMFORT_FOOD"
	CategoryInternational    = "INTERNATIONAL"
)

type Product struct {
	BaseModel
	RemoteID         *int64         `db:"remote_id" json:"remote_id"` // Nil for locally created products
	SKU              string         `db:"sku" json:"sku"`
	Name             string         `db:"name" json:"name"`
	Description      *string        `db:"description" json:"description"`
	ShortDescription *string        `db:"short_description" json:"short_description"`
	Price            float64        `db:"price" json:"price"`
	OriginalPrice    *float64       `db:"original_price" json:"original_price"`
	ImageURL         *string        `db:"image_url" json:"image_url"`
	Category         string         `db:"category" json:"category"`
	StorageType      string         `db:"storage_type" json:"storage_type"`
	IsActive         bool           `db:"is_active" json:"is_active"`
	StockQuantity    int            `db:"stock_quantity" json:"stock_quantity"`
	Calories         *int           `db:"calories" json:"calories"`
	Protein          *float64       `db:"protein" json:"protein"`
	Carbs            *float64       `db:"carbs" json:"carbs"`
	Fat              *float64       `db:"fat" json:"fat"`
	Fiber            *float64       `db:"fiber" json:"fiber"`
	Sugars           *float64       `db:"sugars" json:"sugars"`
	SaturatedFat     *float64       `db:"saturated_fat" json:"saturated_fat"`
	Salt             *float64       `db:"salt" json:"salt"`
	Tags             pq.StringArray `db:"tags" json:"tags"`
	IsFeatured       bool           `db:"is_featured" json:"is_featured"`
	Discount         *int           `db:"discount" json:"discount"`
	Weight           *string        `db:"weight" json:"weight"`
	Dimensions       *string        `db:"dimensions" json:"dimensions"`
}

func (p *Product) IsLinked() bool {
	return p.RemoteID != nil
}

// Nutrition is the structured nutrition record extracted from remote metadata.
// Every field is optional; nil means the source did not say.
type Nutrition struct {
	Calories     *int
	Protein      *float64
	Carbs        *float64
	Fat          *float64
	Fiber        *float64
	Sugars       *float64
	SaturatedFat *float64
	Salt         *float64
}

// ApplyTo copies the nutrition values onto a product.
func (n Nutrition) ApplyTo(p *Product) {
	p.Calories = n.Calories
	p.Protein = n.Protein
	p.Carbs = n.Carbs
	p.Fat = n.Fat
	p.Fiber = n.Fiber
	p.Sugars = n.Sugars
	p.SaturatedFat = n.SaturatedFat
	p.Salt = n.Salt
}

type ProductCategory struct {
	ProductID  string `db:"product_id" json:"product_id"`
	CategoryID string `db:"category_id" json:"category_id"`
	IsPrimary  bool   `db:"is_primary" json:"is_primary"`
}

// ProductRef is the slim projection used for line item matching.
type ProductRef struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}
