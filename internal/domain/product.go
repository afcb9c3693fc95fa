package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxProductImages is the number of image slots a product carries.
const MaxProductImages = 3

// MoneyDecimals is the scale every stored amount is kept at
const MoneyDecimals = 2

// IsMoney reports whether d fits in MoneyDecimals without rounding.
// Trailing zeros are allowed, so 9.990 passes and 9.999 does not.
func IsMoney(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyDecimals))
}

// Product represents a sellable catalog entry
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"nombre"`
	Description   string           `json:"descripcion"`
	Brand         string           `json:"marca"`
	Tone          string           `json:"tono"`
	PurchasePrice *decimal.Decimal `json:"precioCompra,omitempty"`
	SalePrice     *decimal.Decimal `json:"precioVenta,omitempty"`
	// Stock is nil when unknown, which is not the same as zero.
	Stock       *int      `json:"stock,omitempty"`
	CategoryID  string    `json:"categoria"`
	Subcategory string    `json:"subcategoria"`
	Images      []string  `json:"imagenes"`
	Video       string    `json:"video,omitempty"`
	CreatedAt   time.Time `json:"creadoEn"`
	UpdatedAt   time.Time `json:"actualizadoEn"`
}

// UnitPrice returns the price a customer pays for one unit
func (p *Product) UnitPrice() (decimal.Decimal, error) {
	if p.SalePrice == nil {
		return decimal.Zero, &ValidationError{Field: "precioVenta", Err: ErrMissingPrice}
	}
	return *p.SalePrice, nil
}

// Validate checks a product before it is written
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "nombre", Message: "el nombre es obligatorio"}
	}
	if len(p.Images) > MaxProductImages {
		return &ValidationError{Field: "imagenes", Err: ErrTooManyImages}
	}
	if p.PurchasePrice != nil {
		if p.PurchasePrice.IsNegative() {
			return &ValidationError{Field: "precioCompra", Message: "el precio de compra no puede ser negativo"}
		}
		if !IsMoney(*p.PurchasePrice) {
			return &ValidationError{Field: "precioCompra", Err: ErrTooManyDecimals}
		}
	}
	if p.SalePrice != nil {
		if p.SalePrice.IsNegative() {
			return &ValidationError{Field: "precioVenta", Message: "el precio de venta no puede ser negativo"}
		}
		if !IsMoney(*p.SalePrice) {
			return &ValidationError{Field: "precioVenta", Err: ErrTooManyDecimals}
		}
	}
	if p.Stock != nil && *p.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "el stock no puede ser negativo"}
	}
	return nil
}

// FirstImage returns the cover image or an empty string
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Category is an admin-defined classification. Subcategories are plain
// labels owned by the category, not separate entities.
type Category struct {
	ID            string   `json:"id"`
	Name          string   `json:"nombre"`
	Subcategories []string `json:"subcategorias"`
}

// Subcategory is an entry of the legacy id to name lookup collection
type Subcategory struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// CatalogProduct is a product joined with its resolved display names
type CatalogProduct struct {
	Product
	CategoryName    string `json:"categoriaNombre"`
	SubcategoryName string `json:"subcategoriaNombre"`
}
