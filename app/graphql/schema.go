// Package graphql exposes a read-only view of the catalog over GraphQL:
// categories, a single product, the shop listing and delivery zones.
package graphql

import (
	"net/url"
	"strconv"

	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storefront/app/resources"
	"github.com/shashiranjanraj/storefront/app/services"
	gqlhttp "github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/resource"
)

// Resolvers are the services the schema reads from.
type Resolvers struct {
	Catalog    *services.CatalogService
	Categories *services.CategoryService
	Orders     *services.OrderService
	Present    resources.Presenter
	PageSize   int
}

var (
	facetsType = gql.NewObject(gql.ObjectConfig{
		Name: "Facets",
		Fields: gql.Fields{
			"colors":  &gql.Field{Type: gql.NewList(gql.String)},
			"sizes":   &gql.Field{Type: gql.NewList(gql.String)},
			"weights": &gql.Field{Type: gql.NewList(gql.String)},
		},
	})

	rangeType = gql.NewObject(gql.ObjectConfig{
		Name: "PriceRange",
		Fields: gql.Fields{
			"min": &gql.Field{Type: gql.Float},
			"max": &gql.Field{Type: gql.Float},
		},
	})

	pageType = gql.NewObject(gql.ObjectConfig{
		Name: "Pagination",
		Fields: gql.Fields{
			"page":        &gql.Field{Type: gql.Int},
			"page_size":   &gql.Field{Type: gql.Int},
			"total_count": &gql.Field{Type: gql.Int},
			"num_pages":   &gql.Field{Type: gql.Int},
		},
	})

	categoryRefType = gql.NewObject(gql.ObjectConfig{
		Name: "CategoryRef",
		Fields: gql.Fields{
			"id":   &gql.Field{Type: gql.Int},
			"name": &gql.Field{Type: gql.String},
			"slug": &gql.Field{Type: gql.String},
		},
	})

	imageType = gql.NewObject(gql.ObjectConfig{
		Name: "ProductImage",
		Fields: gql.Fields{
			"id":          &gql.Field{Type: gql.Int},
			"name":        &gql.Field{Type: gql.String},
			"url":         &gql.Field{Type: gql.String},
			"alt_text":    &gql.Field{Type: gql.String},
			"is_featured": &gql.Field{Type: gql.Boolean},
			"order":       &gql.Field{Type: gql.Int},
		},
	})

	variationType = gql.NewObject(gql.ObjectConfig{
		Name: "ProductVariation",
		Fields: gql.Fields{
			"id":              &gql.Field{Type: gql.Int},
			"size":            &gql.Field{Type: gql.String},
			"weight":          &gql.Field{Type: gql.String},
			"color":           &gql.Field{Type: gql.String},
			"price":           &gql.Field{Type: gql.Float},
			"effective_price": &gql.Field{Type: gql.Float},
			"stock":           &gql.Field{Type: gql.Int},
		},
	})

	zoneType = gql.NewObject(gql.ObjectConfig{
		Name: "DeliveryZone",
		Fields: gql.Fields{
			"id":     &gql.Field{Type: gql.Int},
			"zone":   &gql.Field{Type: gql.String},
			"charge": &gql.Field{Type: gql.Float},
		},
	})
)

func cardFields() gql.Fields {
	return gql.Fields{
		"id":            &gql.Field{Type: gql.Int},
		"name":          &gql.Field{Type: gql.String},
		"slug":          &gql.Field{Type: gql.String},
		"product_type":  &gql.Field{Type: gql.String},
		"regular_price": &gql.Field{Type: gql.Float},
		"sale_price":    &gql.Field{Type: gql.Float},
		"display_price": &gql.Field{Type: gql.Float},
		"is_featured":   &gql.Field{Type: gql.Boolean},
		"total_stock":   &gql.Field{Type: gql.Int},
		"image":         &gql.Field{Type: gql.String},
	}
}

var productCardType = gql.NewObject(gql.ObjectConfig{Name: "ProductCard", Fields: cardFields()})

var productType = func() *gql.Object {
	fields := cardFields()
	fields["short_description"] = &gql.Field{Type: gql.String}
	fields["description"] = &gql.Field{Type: gql.String}
	fields["stock_quantity"] = &gql.Field{Type: gql.Int}
	fields["colors"] = &gql.Field{Type: gql.NewList(gql.String)}
	fields["sizes"] = &gql.Field{Type: gql.NewList(gql.String)}
	fields["weights"] = &gql.Field{Type: gql.NewList(gql.String)}
	fields["categories"] = &gql.Field{Type: gql.NewList(categoryRefType)}
	fields["images"] = &gql.Field{Type: gql.NewList(imageType)}
	fields["variations"] = &gql.Field{Type: gql.NewList(variationType)}
	fields["related"] = &gql.Field{Type: gql.NewList(productCardType)}
	return gql.NewObject(gql.ObjectConfig{Name: "Product", Fields: fields})
}()

var categoryType = func() *gql.Object {
	t := gql.NewObject(gql.ObjectConfig{
		Name: "Category",
		Fields: gql.Fields{
			"id":         &gql.Field{Type: gql.Int},
			"name":       &gql.Field{Type: gql.String},
			"slug":       &gql.Field{Type: gql.String},
			"full_slug":  &gql.Field{Type: gql.String},
			"group_name": &gql.Field{Type: gql.String},
			"image":      &gql.Field{Type: gql.String},
		},
	})
	t.AddFieldConfig("children", &gql.Field{Type: gql.NewList(t)})
	return t
}()

var shopType = gql.NewObject(gql.ObjectConfig{
	Name: "CatalogPage",
	Fields: gql.Fields{
		"items":          &gql.Field{Type: gql.NewList(productCardType)},
		"pagination":     &gql.Field{Type: pageType},
		"facets":         &gql.Field{Type: facetsType},
		"price_bounds":   &gql.Field{Type: rangeType},
		"selected_price": &gql.Field{Type: rangeType},
		"sort_by":        &gql.Field{Type: gql.String},
		"category":       &gql.Field{Type: categoryRefType},
	},
})

// NewSchema builds the schema around r.
func NewSchema(r Resolvers) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"categories": &gql.Field{
				Type:    gql.NewList(categoryType),
				Resolve: r.categories,
			},
			"product": &gql.Field{
				Type: productType,
				Args: gql.FieldConfigArgument{
					"slug": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.String)},
				},
				Resolve: r.product,
			},
			"shop": &gql.Field{
				Type: shopType,
				Args: gql.FieldConfigArgument{
					"search":    &gql.ArgumentConfig{Type: gql.String},
					"category":  &gql.ArgumentConfig{Type: gql.String},
					"min_price": &gql.ArgumentConfig{Type: gql.Float},
					"max_price": &gql.ArgumentConfig{Type: gql.Float},
					"color":     &gql.ArgumentConfig{Type: gql.NewList(gql.String)},
					"size":      &gql.ArgumentConfig{Type: gql.NewList(gql.String)},
					"weight":    &gql.ArgumentConfig{Type: gql.NewList(gql.String)},
					"sort_by":   &gql.ArgumentConfig{Type: gql.String},
					"page":      &gql.ArgumentConfig{Type: gql.Int},
				},
				Resolve: r.shop,
			},
			"deliveryZones": &gql.Field{
				Type:    gql.NewList(zoneType),
				Resolve: r.zones,
			},
		},
	})
	return gqlhttp.NewSchema(query)
}

func (r Resolvers) categories(p gql.ResolveParams) (any, error) {
	forest, err := r.Categories.Forest(p.Context)
	if err != nil {
		return nil, err
	}
	return resource.Collection(forest, r.Present.CategoryNode), nil
}

func (r Resolvers) product(p gql.ResolveParams) (any, error) {
	slug, _ := p.Args["slug"].(string)
	detail, err := r.Catalog.ProductDetail(p.Context, slug)
	if err != nil {
		return nil, err
	}
	return r.Present.ProductDetail(detail), nil
}

// shop maps the arguments onto the same query parameters the REST view
// parses, so both surfaces share one permissive parser.
func (r Resolvers) shop(p gql.ResolveParams) (any, error) {
	q := url.Values{}
	for _, key := range []string{"search", "category", "sort_by"} {
		if v, ok := p.Args[key].(string); ok {
			q.Set(key, v)
		}
	}
	for _, key := range []string{"min_price", "max_price"} {
		if v, ok := p.Args[key].(float64); ok {
			q.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	for _, key := range []string{"color", "size", "weight"} {
		if list, ok := p.Args[key].([]any); ok {
			for _, v := range list {
				if s, ok := v.(string); ok {
					q.Add(key, s)
				}
			}
		}
	}
	if page, ok := p.Args["page"].(int); ok {
		q.Set("page", strconv.Itoa(page))
	}

	view := services.ViewShop
	if q.Get("search") != "" {
		view = services.ViewSearch
	}
	res, err := r.Catalog.Query(p.Context, services.ParseCatalogQuery(q, view, r.PageSize))
	if err != nil {
		return nil, err
	}
	return r.Present.Catalog(res, nil), nil
}

func (r Resolvers) zones(p gql.ResolveParams) (any, error) {
	zones, err := r.Orders.Zones(p.Context)
	if err != nil {
		return nil, err
	}
	return resource.Collection(zones, resources.DeliveryZone), nil
}
