// Package schema is the read-only GraphQL view of the catalog.
package schema

import (
	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/brewandco/app/repositories"
	"github.com/shashiranjanraj/brewandco/app/services"
	"github.com/shashiranjanraj/brewandco/pkg/apperr"
	gql "github.com/shashiranjanraj/brewandco/pkg/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description":  &graphql.Field{Type: graphql.String},
		"price":        &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"category":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"image":        &graphql.Field{Type: graphql.String},
		"popular":      &graphql.Field{Type: graphql.Boolean},
		"rating":       &graphql.Field{Type: graphql.Float},
		"stock":        &graphql.Field{Type: graphql.Int},
		"is_available": &graphql.Field{Type: graphql.Boolean},
	},
})

// Catalog builds the schema:
//
//	products(category: String, popular: Boolean): [Product!]!
//	product(id: Int!): Product
func Catalog(catalog *services.CatalogService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"popular":  &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var f repositories.ProductFilter
					f.Category, _ = p.Args["category"].(string)
					f.PopularOnly, _ = p.Args["popular"].(bool)
					return catalog.List(p.Context, f)
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					product, err := catalog.Get(p.Context, uint(id))
					if apperr.Is(err, apperr.KindNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return product, nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}
