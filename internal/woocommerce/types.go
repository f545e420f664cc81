package woocommerce

import (
	"context"

	"github.com/goccy/go-json"
)

// Remote store REST resources.
const (
	ResourceProducts   = "products"
	ResourceCategories = "products/categories"
	ResourceOrders     = "orders"
)

type RemoteProduct struct {
	ID               int64         `json:"id" validate:"required"`
	Name             string        `json:"name" validate:"required"`
	Slug             string        `json:"slug"`
	SKU              string        `json:"sku"`
	Status           string        `json:"status"` // publish, draft, pending, private
	Featured         bool          `json:"featured"`
	Description      string        `json:"description"`
	ShortDescription string        `json:"short_description"`
	Price            string        `json:"price"`
	RegularPrice     string        `json:"regular_price"`
	SalePrice        string        `json:"sale_price"`
	OnSale           bool          `json:"on_sale"`
	StockQuantity    *int          `json:"stock_quantity"`
	Weight           string        `json:"weight"`
	Dimensions       Dimensions    `json:"dimensions"`
	Categories       []CategoryRef `json:"categories"`
	Tags             []TagRef      `json:"tags"`
	Images           []Image       `json:"images"`
	MetaData         []MetaData    `json:"meta_data"`
}

type Dimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TagRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Image struct {
	ID   int64  `json:"id"`
	Src  string `json:"src"`
	Name string `json:"name"`
	Alt  string `json:"alt"`
}

// MetaData is a free-form key/value pair. Values are whatever the store
// plugin wrote: strings, numbers, or nested objects.
type MetaData struct {
	ID    int64  `json:"id"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type RemoteCategory struct {
	ID          int64  `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	Parent      int64  `json:"parent"` // 0 = root
	Description string `json:"description"`
	Image       *Image `json:"image"`
	MenuOrder   int    `json:"menu_order"`
	Count       int    `json:"count"`
}

type RemoteOrder struct {
	ID              int64      `json:"id"`
	Number          string     `json:"number" validate:"required"`
	Status          string     `json:"status"`
	Currency        string     `json:"currency"`
	Total           string     `json:"total"`
	ShippingTotal   string     `json:"shipping_total"`
	CustomerNote    string     `json:"customer_note"`
	DateCreatedGMT  string     `json:"date_created_gmt"`
	DateModifiedGMT string     `json:"date_modified_gmt"`
	Billing         Address    `json:"billing"`
	Shipping        Address    `json:"shipping"`
	LineItems       []LineItem `json:"line_items"`
}

type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type LineItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	ProductID int64   `json:"product_id"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     string  `json:"total"`
}

// Fetcher drains a whole remote collection as raw records.
type Fetcher interface {
	FetchAll(ctx context.Context, resource string, pageSize int) ([]json.RawMessage, error)
}
