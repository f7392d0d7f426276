package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the directory and search.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	cityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "City",
		Fields: graphql.Fields{
			"name":   &graphql.Field{Type: graphql.String},
			"bbox":   &graphql.Field{Type: graphql.String},
			"bounds": &graphql.Field{Type: boundsType},
			"center": &graphql.Field{Type: geoPointType},
		},
	})

	hotelType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Hotel",
		Fields: graphql.Fields{
			// OSM ids overflow GraphQL Int.
			"id": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					h, _ := p.Source.(domain.Hotel)
					return strconv.FormatInt(h.ID, 10), nil
				},
			},
			"lat":        &graphql.Field{Type: graphql.Float},
			"lon":        &graphql.Field{Type: graphql.Float},
			"name":       &graphql.Field{Type: graphql.String},
			"distance_m": &graphql.Field{Type: graphql.Float},
		},
	})

	searchType := graphql.NewObject(graphql.ObjectConfig{
		Name: "HotelSearch",
		Fields: graphql.Fields{
			"city":          &graphql.Field{Type: graphql.String},
			"resolved_city": &graphql.Field{Type: graphql.String},
			"fallback":      &graphql.Field{Type: graphql.Boolean},
			"center":        &graphql.Field{Type: geoPointType},
			"status": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					res, _ := p.Source.(*domain.SearchResult)
					if res == nil {
						return nil, nil
					}
					return string(res.Status), nil
				},
			},
			"message": &graphql.Field{Type: graphql.String},
			"hotels":  &graphql.Field{Type: graphql.NewList(hotelType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"cities": &graphql.Field{
				Type:        graphql.NewList(cityType),
				Description: "All cities in directory order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cities, err := deps.Directory.Cities()
					if err != nil {
						return nil, userError(err)
					}
					return cities, nil
				},
			},
			"city": &graphql.Field{
				Type:        cityType,
				Description: "A city by exact name, or null",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name := p.Args["name"].(string)
					if _, err := deps.Directory.Directory(); err != nil {
						return nil, userError(err)
					}
					rec, err := deps.Directory.Get(name)
					if err != nil {
						return nil, nil
					}
					return rec, nil
				},
			},
			"hotels": &graphql.Field{
				Type:        searchType,
				Description: "Hotels inside a city's bounding box; an unknown city falls back to the default",
				Args: graphql.FieldConfigArgument{
					"city": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					city, _ := p.Args["city"].(string)
					res, err := deps.Hotels.Search(p.Context, city)
					if err != nil {
						return nil, userError(err)
					}
					return res, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// userError hides internal detail behind the message shown on the page.
func userError(err error) error {
	return errors.New(domain.UserMessage(err))
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
