package controllers

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/neomdavid/IAX-ROLEX-backend/app/models"
	"github.com/neomdavid/IAX-ROLEX-backend/app/store"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/apperr"
	gql "github.com/neomdavid/IAX-ROLEX-backend/pkg/graphql"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
)

var watchType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Watch",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				w, _ := p.Source.(models.Watch)
				return w.ID.Hex(), nil
			},
		},
		"name":        &graphql.Field{Type: graphql.String},
		"brand":       &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"description": &graphql.Field{Type: graphql.String},
		"stock":       &graphql.Field{Type: graphql.Int},
		"watchImage":  &graphql.Field{Type: graphql.String},
		"createdAt":   &graphql.Field{Type: graphql.DateTime},
		"updatedAt":   &graphql.Field{Type: graphql.DateTime},
	},
})

// CatalogSchema is the read-only catalog:
//
//	{ watches(category: "diver") { id name price } }
//	{ watch(id: "65f1c2a9e4b0a1b2c3d4e5f6") { name watchImage } }
func CatalogSchema(watches store.Watches) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"watches": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(watchType))),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var f store.WatchFilter
					if cat, _ := p.Args["category"].(string); cat != "all" {
						f.Category = cat
					}
					out, err := watches.Find(p.Context, f)
					if err != nil {
						return nil, internal(p, err)
					}
					return out, nil
				},
			},
			"watch": &graphql.Field{
				Type: watchType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					w, err := watches.FindByID(p.Context, id)
					if errors.Is(err, store.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, internal(p, err)
					}
					return *w, nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}

// internal logs err and hides it from the client.
func internal(p graphql.ResolveParams, err error) error {
	logger.WithCtx(p.Context).Error("graphql: resolve failed", "field", p.Info.FieldName, "error", err)
	return errors.New(apperr.GenericMessage)
}
