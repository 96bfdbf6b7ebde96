package main

import (
	"errors"
	"time"

	"sweetspro/internal/models"

	"go.uber.org/zap"
)

const couponLifetime = 30 * 24 * time.Hour

// catalog is the starter assortment loaded into an empty store.
var catalog = []models.Product{
	{Name: "Baked Cheesecake (12 slices)", Category: "Cheesecake", Price: 2150, Stock: 40, Badge: "Best Seller",
		Description: "Six-inch baked cheesecake cut into twelve slices."},
	{Name: "Rare Cheesecake No.5", Category: "Cheesecake", Price: 2800, Stock: 20,
		Description: "Unbaked cream cheese cake on a biscuit base."},
	{Name: "Black Sesame Mont Blanc (4 pcs)", Category: "Mont Blanc", Price: 1320, Stock: 50, Badge: "No.1",
		Description: "Black sesame cream piped over chestnut sponge."},
	{Name: "Amaou Strawberry Mont Blanc (4 pcs)", Category: "Mont Blanc", Price: 1480, Stock: 30, Badge: "NEW",
		Description: "Strawberry cream Mont Blanc made with Amaou berries."},
	{Name: "Ganache Chocolate Cake (12 slices)", Category: "Chocolate Cake", Price: 1970, Stock: 35, Badge: "Recommended",
		Description: "Rich ganache layered between chocolate sponge."},
	{Name: "Pistachio Mousse", Category: "Mousse Cake", Price: 1550, Stock: 25, Badge: "NEW",
		Description: "Light pistachio mousse with a raspberry centre."},
	{Name: "Seasonal Fruit Tart No.5", Category: "Fruit Cake", Price: 3200, Stock: 15, Badge: "Seasonal",
		Description: "Custard tart topped with seasonal fruit."},
	{Name: "Uji Matcha Tiramisu", Category: "Tiramisu", Price: 1620, Stock: 30, Badge: "Limited",
		Description: "Tiramisu with Uji matcha in place of espresso."},
	{Name: "Hokkaido Cream Shortcake", Category: "Shortcake", Price: 3800, Stock: 12,
		Description: "Strawberry shortcake with Hokkaido fresh cream."},
	{Name: "Three Cake Tasting Set", Category: "Set Items", Price: 2980, Stock: 20, Badge: "Gift",
		Description: "Cheesecake, chocolate cake and Mont Blanc in one box."},
}

// starterCoupons returns the welcome coupons, expiring couponLifetime after now.
func starterCoupons(now time.Time) []models.Coupon {
	expires := now.Add(couponLifetime)
	return []models.Coupon{
		{Code: "WELCOME10", Title: "10% off your first order", DiscountType: models.DiscountPercentage,
			DiscountValue: 10, MinPurchase: 3000, ExpiresAt: expires},
		{Code: "SAVE500", Title: "500 off orders over 5000", DiscountType: models.DiscountFixed,
			DiscountValue: 500, MinPurchase: 5000, ExpiresAt: expires},
		{Code: "BIRTHDAY15", Title: "Birthday 15% off", DiscountType: models.DiscountPercentage,
			DiscountValue: 15, MinPurchase: 0, ExpiresAt: expires},
	}
}

// seedData loads the catalog when it is empty and issues any starter
// coupon that does not exist yet. It is safe to run repeatedly.
func seedData(st stores, logger *zap.Logger) error {
	existing, err := st.Products.GetAll()
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		for i := range catalog {
			p := catalog[i]
			if err := st.Products.Create(&p); err != nil {
				return err
			}
			logger.Debug("seeded product", zap.String("id", p.ID), zap.String("name", p.Name))
		}
		logger.Info("catalog seeded", zap.Int("products", len(catalog)))
	}

	for _, c := range starterCoupons(time.Now()) {
		if err := st.Coupons.Create(&c); err != nil {
			if errors.Is(err, models.ErrCouponCodeTaken) {
				continue
			}
			return err
		}
		logger.Info("seeded coupon", zap.String("code", c.Code))
	}
	return nil
}
