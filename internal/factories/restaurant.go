package factories

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/chrisdamba/fooder/internal/models"
	"github.com/jaswdr/faker"
)

// tierWeights skews synthetic catalogs towards cheaper restaurants.
var tierWeights = []float64{0.35, 0.4, 0.18, 0.07}

// RestaurantFactory produces synthetic catalog records scattered around the
// configured city centre. The same seed yields the same catalog.
type RestaurantFactory struct {
	fake      faker.Faker
	rng       *rand.Rand
	nameCache sync.Map // to keep vertex names unique
}

func NewRestaurantFactory(seed int64) *RestaurantFactory {
	return &RestaurantFactory{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (rf *RestaurantFactory) CreateRestaurant(config *models.Config) models.Restaurant {
	latRange := config.UrbanRadius / 111.0
	lonRange := latRange / math.Cos(config.CityLat*math.Pi/180.0)

	latOffset := (rf.rng.Float64()*2 - 1) * latRange
	lonOffset := (rf.rng.Float64()*2 - 1) * lonRange

	categories := models.Categories()
	category := categories[rf.rng.Intn(len(categories))]

	return models.Restaurant{
		Name:      rf.createUniqueName(rf.fake.Company().Name()),
		Category:  category,
		Address:   fmt.Sprintf("%s, %s", rf.fake.Address().StreetAddress(), rf.fake.Address().City()),
		PriceTier: rf.pickTier(),
		Location: models.Location{
			Lat: config.CityLat + latOffset,
			Lon: config.CityLon + lonOffset,
		},
		ReviewScore: rf.fake.Float64(1, 0, 5),
	}
}

// CreateCatalog returns n restaurants with distinct names.
func (rf *RestaurantFactory) CreateCatalog(config *models.Config, n int) []models.Restaurant {
	restaurants := make([]models.Restaurant, n)
	for i := range restaurants {
		restaurants[i] = rf.CreateRestaurant(config)
	}
	return restaurants
}

func (rf *RestaurantFactory) pickTier() models.PriceTier {
	r := rf.rng.Float64()
	for i, w := range tierWeights {
		if r < w {
			return models.PriceTier(i + 1)
		}
		r -= w
	}
	return models.PriceTierLuxury
}

func (rf *RestaurantFactory) createUniqueName(base string) string {
	name := base
	counter := 2

	for {
		if _, exists := rf.nameCache.LoadOrStore(name, true); !exists {
			return name
		}
		name = fmt.Sprintf("%s #%d", base, counter)
		counter++
	}
}
