package seeders

import (
	"github.com/shashiranjanraj/brewandco/app/models"
	"gorm.io/gorm"
)

func init() {
	Register("products", SeedProducts)
}

func unsplash(id string) string {
	return "https://images.unsplash.com/" + id + "?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80"
}

var menu = []models.Product{
	{Name: "Flat White", Category: "hot-coffee", Price: 3.50, Description: "Velvety milk, perfectly pulled shots.", Image: "FlatWhite.jpg", Popular: true, Rating: 4.8},
	{Name: "Cold Brew", Category: "cold-coffee", Price: 4.00, Description: "Slow-steeped for smooth clarity.", Image: unsplash("photo-1568649929103-28ffbefaca1e"), Popular: true, Rating: 4.6},
	{Name: "Almond Croissant", Category: "pastries", Price: 2.75, Description: "Buttery, flaky, house-made almond filling.", Image: "AlmondCroissant.jpeg", Popular: true, Rating: 4.9},
	{Name: "Latte", Category: "hot-coffee", Price: 3.25, Description: "Balanced, creamy, customizable syrups.", Image: "Latte.jpg", Popular: true, Rating: 4.7},
	{Name: "Espresso", Category: "hot-coffee", Price: 2.00, Description: "Single origin shots; intense and clean.", Image: "espresso.jpg", Rating: 4.5},
	{Name: "Blueberry Muffin", Category: "pastries", Price: 2.50, Description: "Moist, with a crisp sugar top.", Image: unsplash("photo-1563729784474-d77dbb933a9e"), Rating: 4.4},
	{Name: "Mocha", Category: "hot-coffee", Price: 4.50, Description: "Chocolate and espresso harmony.", Image: unsplash("photo-1514432324607-a09d9b4aefdd"), Rating: 4.6},
	{Name: "Caramel Macchiato", Category: "cold-coffee", Price: 4.25, Description: "Sweet caramel drizzle over smooth espresso.", Image: unsplash("photo-1561336313-0bd5e0b27ec8"), Popular: true, Rating: 4.8},
	{Name: "Matcha Latte", Category: "tea", Price: 4.00, Description: "Organic matcha blended with creamy milk.", Image: "MatchaLatte.jpg", Rating: 4.7},
	{Name: "Banana Bread", Category: "pastries", Price: 2.80, Description: "Soft, moist, baked fresh every morning.", Image: unsplash("photo-1571877227200-a0d98ea607e9"), Rating: 4.3},
	{Name: "Cappuccino", Category: "hot-coffee", Price: 3.75, Description: "Perfectly balanced espresso with foamed milk.", Image: unsplash("photo-1572442388796-11668a67e53d"), Popular: true, Rating: 4.8},
	{Name: "Iced Americano", Category: "cold-coffee", Price: 3.00, Description: "Double shot of espresso over ice.", Image: unsplash("photo-1517701604599-bb29b565090c"), Rating: 4.5},
	{Name: "Pumpkin Spice Latte", Category: "specials", Price: 4.75, Description: "Seasonal favorite with pumpkin and spices.", Image: unsplash("photo-1509042239860-f550ce710b93"), Popular: true, Rating: 4.9},
	{Name: "Chai Tea", Category: "tea", Price: 3.50, Description: "Spiced black tea with steamed milk.", Image: "chai.webp", Rating: 4.6},
	{Name: "Chocolate Chip Cookie", Category: "pastries", Price: 2.25, Description: "Freshly baked with dark chocolate chunks.", Image: unsplash("photo-1499636136210-6f4ee915583e"), Rating: 4.7},
}

// SeedProducts inserts the house menu. Products are matched by name, so
// rerunning it never duplicates rows or overwrites admin edits.
func SeedProducts(db *gorm.DB) error {
	for _, p := range menu {
		p.IsAvailable = true
		p.Stock = 100
		if err := db.Where(models.Product{Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
	}
	return nil
}
