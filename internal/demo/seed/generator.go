package seed

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

var (
	regions    = []string{"North", "South", "East", "West"}
	firstNames = []string{"Ada", "Ben", "Chloe", "Dev", "Elena", "Farid", "Grace", "Hiro", "Ines", "Jonas", "Kemi", "Luca", "Maya", "Nils", "Omar", "Priya"}
	lastNames  = []string{"Adams", "Bauer", "Costa", "Diaz", "Evans", "Fischer", "Garcia", "Haddad", "Ito", "Jensen", "Khan", "Lopez", "Moreau", "Novak"}
	catalog    = map[string][]string{
		"Electronics": {"Headphones", "Keyboard", "Monitor", "Charger", "Speaker"},
		"Books":       {"Cookbook", "Novel", "Atlas", "Journal", "Biography"},
		"Home":        {"Lamp", "Kettle", "Blanket", "Mug", "Vase"},
		"Toys":        {"Puzzle", "Kite", "Robot", "Board Game", "Yo-yo"},
		"Grocery":     {"Coffee", "Tea", "Olive Oil", "Honey", "Pasta"},
	}
	categories  = []string{"Electronics", "Books", "Home", "Toys", "Grocery"}
	adjectives  = []string{"Classic", "Deluxe", "Compact", "Organic", "Smart", "Vintage"}
	priceRanges = map[string][2]float64{
		"Electronics": {19, 399},
		"Books":       {6, 45},
		"Home":        {8, 120},
		"Toys":        {5, 80},
		"Grocery":     {2, 30},
	}
)

type Customer struct {
	ID         int64
	Name       string
	Age        int
	SignupDate time.Time
	Region     string
}

type Product struct {
	ID       int64
	Name     string
	Category string
	Price    float64
}

type Order struct {
	ID         int64
	CustomerID int64
	OrderDate  time.Time
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
}

type Dataset struct {
	Customers  []Customer
	Products   []Product
	Orders     []Order
	OrderItems []OrderItem
}

// Generate builds the demo shop. The same config always yields the same
// dataset; every order references an existing customer and every item an
// existing order and product. Orders never predate their customer's signup.
func Generate(cfg Config) Dataset {
	rnd := rand.New(rand.NewSource(cfg.Seed))
	start := cfg.StartDate.UTC().Truncate(24 * time.Hour)

	var data Dataset
	for i := 1; i <= cfg.Customers; i++ {
		data.Customers = append(data.Customers, Customer{
			ID:         int64(i),
			Name:       pickOne(rnd, firstNames) + " " + pickOne(rnd, lastNames),
			Age:        18 + rnd.Intn(63),
			SignupDate: start.AddDate(0, 0, rnd.Intn(cfg.Days)),
			Region:     pickOne(rnd, regions),
		})
	}

	for i := 1; i <= cfg.Products; i++ {
		category := categories[(i-1)%len(categories)]
		bounds := priceRanges[category]
		data.Products = append(data.Products, Product{
			ID:       int64(i),
			Name:     fmt.Sprintf("%s %s", pickOne(rnd, adjectives), pickOne(rnd, catalog[category])),
			Category: category,
			Price:    round2(bounds[0] + rnd.Float64()*(bounds[1]-bounds[0])),
		})
	}

	end := start.AddDate(0, 0, cfg.Days)
	itemID := int64(0)
	for i := 1; i <= cfg.Orders; i++ {
		customer := data.Customers[rnd.Intn(len(data.Customers))]
		window := int(end.Sub(customer.SignupDate).Hours() / 24)
		order := Order{
			ID:         int64(i),
			CustomerID: customer.ID,
			OrderDate:  customer.SignupDate.AddDate(0, 0, rnd.Intn(max(window, 1))),
		}
		data.Orders = append(data.Orders, order)

		for n := 1 + rnd.Intn(cfg.MaxOrderItems); n > 0; n-- {
			itemID++
			data.OrderItems = append(data.OrderItems, OrderItem{
				ID:        itemID,
				OrderID:   order.ID,
				ProductID: data.Products[rnd.Intn(len(data.Products))].ID,
				Quantity:  1 + rnd.Intn(5),
			})
		}
	}
	return data
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func pickOne(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}
