package http

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/hotelfinder/internal/core/domain"
)

const maxCityLen = 100

// CityList is the body of GET /v1/cities.
type CityList struct {
	Fallback string              `json:"fallback"`
	Cities   []domain.CityRecord `json:"cities"`
}

// ListCitiesHandler returns the directory in document order.
func ListCitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cities, err := deps.Directory.Cities()
		if err != nil {
			return errPipeline(c, err)
		}
		return c.JSON(CityList{
			Fallback: deps.Directory.FallbackCity(),
			Cities:   cities,
		})
	}
}

// GetCityHandler returns one city by exact name. No fallback is applied.
func GetCityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("name"))
		if err != nil || strings.TrimSpace(name) == "" {
			return errBadRequest(c, "invalid city name")
		}

		if _, err := deps.Directory.Directory(); err != nil {
			return errPipeline(c, err)
		}
		rec, err := deps.Directory.Get(name)
		if err != nil {
			return errNotFound(c, "city not found: "+name)
		}
		return c.JSON(rec)
	}
}

// HotelsHandler runs one search for ?city= (default: the fallback city).
// ready and empty are both 200; the status field tells them apart.
func HotelsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")

		city := strings.TrimSpace(c.Query("city"))
		if len(city) > maxCityLen {
			return errBadRequest(c, "city too long (max 100 bytes)")
		}

		res, err := deps.Hotels.Search(c.UserContext(), city)
		if err != nil {
			return errPipeline(c, err)
		}
		return c.JSON(res)
	}
}
