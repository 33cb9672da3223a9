package controllers

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/resources"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/resource"
)

// DashboardController lets a vendor manage their own listings. Routes are
// mounted behind Authenticate and the vendor role.
type DashboardController struct {
	dashboard *services.DashboardService
	present   resources.Presenter
	pageSize  int
}

func NewDashboardController(dashboard *services.DashboardService, present resources.Presenter, pageSize int) *DashboardController {
	return &DashboardController{dashboard: dashboard, present: present, pageSize: pageSize}
}

type imageForm struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	AltText    string `json:"alt_text"`
	IsFeatured bool   `json:"is_featured"`
	Order      int    `json:"order"`
}

type variationForm struct {
	Size   string              `json:"size"`
	Weight string              `json:"weight"`
	Color  string              `json:"color"`
	Price  decimal.NullDecimal `json:"price"`
	Stock  int                 `json:"stock"`
}

type productForm struct {
	Name             string              `json:"name" validate:"required,max=255"`
	ShortDescription string              `json:"short_description"`
	Description      string              `json:"description"`
	ProductType      string              `json:"product_type" validate:"required,in=simple,variable"`
	CategoryIDs      []uint              `json:"category_ids"`
	RegularPrice     decimal.Decimal     `json:"regular_price" validate:"min=0"`
	SalePrice        decimal.NullDecimal `json:"sale_price"`
	StockQuantity    int                 `json:"stock_quantity" validate:"min=0"`
	IsActive         *bool               `json:"is_active"`
	IsFeatured       bool                `json:"is_featured"`
	MetaTitle        string              `json:"meta_title" validate:"max=255"`
	MetaDescription  string              `json:"meta_description"`
	MetaKeywords     string              `json:"meta_keywords" validate:"max=255"`
	Images           []imageForm         `json:"images"`
	Variations       []variationForm     `json:"variations"`
}

func (f productForm) input() services.ProductInput {
	in := services.ProductInput{
		Name:             f.Name,
		ShortDescription: f.ShortDescription,
		Description:      f.Description,
		ProductType:      models.ProductType(f.ProductType),
		CategoryIDs:      f.CategoryIDs,
		RegularPrice:     f.RegularPrice,
		SalePrice:        f.SalePrice,
		StockQuantity:    f.StockQuantity,
		IsActive:         f.IsActive == nil || *f.IsActive,
		IsFeatured:       f.IsFeatured,
		MetaTitle:        f.MetaTitle,
		MetaDescription:  f.MetaDescription,
		MetaKeywords:     f.MetaKeywords,
	}
	if in.CategoryIDs == nil {
		in.CategoryIDs = []uint{}
	}
	if f.Images != nil {
		in.Images = make([]services.ImageInput, 0, len(f.Images))
		for _, img := range f.Images {
			in.Images = append(in.Images, services.ImageInput(img))
		}
	}
	if f.Variations != nil {
		in.Variations = make([]services.VariationInput, 0, len(f.Variations))
		for _, v := range f.Variations {
			in.Variations = append(in.Variations, services.VariationInput(v))
		}
	}
	return in
}

func vendorID(cx *ctx.Context) (uint, bool) {
	id, ok := middleware.UserIDFromCtx(cx.R)
	if !ok || id == 0 {
		cx.Unauthorized()
		return 0, false
	}
	return id, true
}

func (c *DashboardController) Index(cx *ctx.Context) {
	vendor, ok := vendorID(cx)
	if !ok {
		return
	}

	res, err := c.dashboard.List(cx.Context(), services.DashboardQuery{
		VendorID:   vendor,
		Search:     cx.Query("search"),
		CategoryID: services.UintOr(cx.Query("category"), 0),
		Page:       services.IntOr(cx.Query("page"), 1),
		PageSize:   c.pageSize,
	})
	if err != nil {
		fail(cx, err)
		return
	}

	out := resource.Paginated(res.Items, res.Page, c.present.Product)
	out["categories"] = resource.Collection(res.Categories, resources.CategoryRef)
	cx.Success(out)
}

func (c *DashboardController) Store(cx *ctx.Context) {
	vendor, ok := vendorID(cx)
	if !ok {
		return
	}
	var form productForm
	if !cx.BindJSON(&form) {
		return
	}

	p, err := c.dashboard.Create(cx.Context(), vendor, form.input())
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Created(c.present.Product(*p))
}

func (c *DashboardController) Update(cx *ctx.Context) {
	vendor, ok := vendorID(cx)
	if !ok {
		return
	}
	var form productForm
	if !cx.BindJSON(&form) {
		return
	}

	p, err := c.dashboard.Update(cx.Context(), vendor, services.UintOr(cx.Param("id"), 0), form.input())
	if err != nil {
		fail(cx, err)
		return
	}
	cx.Success(c.present.Product(*p))
}

func (c *DashboardController) Destroy(cx *ctx.Context) {
	vendor, ok := vendorID(cx)
	if !ok {
		return
	}
	if err := c.dashboard.Delete(cx.Context(), vendor, services.UintOr(cx.Param("id"), 0)); err != nil {
		fail(cx, err)
		return
	}
	cx.NoContent()
}
