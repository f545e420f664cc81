package usecase

import (
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/internal/woocommerce"
	"github.com/shopspring/decimal"
)

const statusPublish = "publish"

var categoryRules = []struct {
	keywords []string
	category string
}{
	{[]string{"irish", "traditional"}, model.CategoryTraditionalIrish},
	{[]string{"healthy", "fitness"}, model.CategoryHealthy},
	{[]string{"vegetarian", "vegan"}, model.CategoryVegetarian},
	{[]string{"seafood", "fish"}, model.CategorySeafood},
	{[]string{"comfort"}, model.CategoryComfortFood},
}

// InferCategory picks the menu category from the first remote category name.
func InferCategory(categories []woocommerce.CategoryRef) string {
	if len(categories) == 0 {
		return model.CategoryInternational
	}
	name := strings.ToLower(categories[0].Name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return model.CategoryInternational
}

// ComputeDiscount returns the rounded sale percentage, or nil when the item
// is not on sale or the prices do not describe a reduction.
func ComputeDiscount(onSale bool, regularPrice, salePrice string) *int {
	if !onSale {
		return nil
	}
	regular, ok := parseMoney(regularPrice)
	if !ok || !regular.IsPositive() {
		return nil
	}
	sale, ok := parseMoney(salePrice)
	if !ok || sale.GreaterThanOrEqual(regular) {
		return nil
	}

	pct := int(regular.Sub(sale).Div(regular).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	return &pct
}

func parseMoney(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// currentPrice is what the customer pays today: price, else sale price,
// else regular price.
func currentPrice(rp *woocommerce.RemoteProduct) float64 {
	for _, s := range []string{rp.Price, rp.SalePrice, rp.RegularPrice} {
		if d, ok := parseMoney(s); ok {
			return d.Round(2).InexactFloat64()
		}
	}
	return 0
}

// originalPrice is the regular price, kept only while the item is on sale.
func originalPrice(rp *woocommerce.RemoteProduct) *float64 {
	if !rp.OnSale {
		return nil
	}
	d, ok := parseMoney(rp.RegularPrice)
	if !ok {
		return nil
	}
	f := d.Round(2).InexactFloat64()
	return &f
}

func stockQuantity(rp *woocommerce.RemoteProduct) int {
	if rp.StockQuantity == nil || *rp.StockQuantity < 0 {
		return 0
	}
	return *rp.StockQuantity
}

func firstImage(rp *woocommerce.RemoteProduct) *string {
	for _, img := range rp.Images {
		if src := optionalString(img.Src); src != nil {
			return src
		}
	}
	return nil
}

func dimensions(d woocommerce.Dimensions) *string {
	parts := []string{strings.TrimSpace(d.Length), strings.TrimSpace(d.Width), strings.TrimSpace(d.Height)}
	if parts[0] == "" && parts[1] == "" && parts[2] == "" {
		return nil
	}
	s := strings.Join(parts, "x")
	return &s
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// applyImport writes the full mapped field set onto p.
func applyImport(p *model.Product, rp *woocommerce.RemoteProduct, storageType string, now time.Time) {
	remoteID := rp.ID
	p.RemoteID = &remoteID
	p.SKU = strings.TrimSpace(rp.SKU)
	p.Name = strings.TrimSpace(rp.Name)
	p.Description = optionalString(rp.Description)
	p.ShortDescription = optionalString(rp.ShortDescription)
	p.Category = InferCategory(rp.Categories)
	p.StorageType = storageType
	p.Weight = optionalString(rp.Weight)
	p.Dimensions = dimensions(rp.Dimensions)
	ExtractNutrition(rp.MetaData).ApplyTo(p)

	applyResync(p, rp, now)
}

// applyResync refreshes the commercial fields only: pricing, stock, flags,
// media, and tags.
func applyResync(p *model.Product, rp *woocommerce.RemoteProduct, now time.Time) {
	remoteID := rp.ID
	p.RemoteID = &remoteID
	p.Price = currentPrice(rp)
	p.OriginalPrice = originalPrice(rp)
	p.Discount = ComputeDiscount(rp.OnSale, rp.RegularPrice, rp.SalePrice)
	p.StockQuantity = stockQuantity(rp)
	p.IsActive = rp.Status == statusPublish
	p.IsFeatured = rp.Featured
	if img := firstImage(rp); img != nil {
		p.ImageURL = img
	}
	p.Tags = ExtractTags(rp.Tags, rp.Categories)
	p.UpdatedAt = now
}
