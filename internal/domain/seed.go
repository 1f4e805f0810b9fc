package domain

func price(v float64) *float64 { return &v }

// seedCatalog is the built-in catalog used on first run and whenever the
// persisted catalog is shorter than it.
var seedCatalog = []Product{
	{
		ID: 1, Name: "iPhone 15 Pro", Category: "Mobile", Brand: "Apple",
		Price: 999, OriginalPrice: price(1099),
		Description:      "Titanium design, A17 Pro chip and a 48MP main camera with 5x telephoto.",
		ShortDescription: "Titanium flagship with A17 Pro",
		Images: []string{
			"https://images.unsplash.com/photo-1695048133142-1a20484d2569?w=800",
			"https://images.unsplash.com/photo-1696446701796-da61225697cc?w=800",
		},
		InStock: true, Rating: 4.8, Reviews: 1250,
	},
	{
		ID: 2, Name: "Samsung Galaxy S24 Ultra", Category: "Mobile", Brand: "Samsung",
		Price: 1199, OriginalPrice: price(1299),
		Description:      "Built-in S Pen, 200MP camera and Galaxy AI features on a 6.8 inch display.",
		ShortDescription: "200MP camera with S Pen",
		Images:           []string{"https://images.unsplash.com/photo-1610945265064-0e34e5519bbf?w=800"},
		InStock:          true, Rating: 4.7, Reviews: 980,
	},
	{
		ID: 3, Name: "Google Pixel 8", Category: "Mobile", Brand: "Google",
		Price:            699,
		Description:      "Tensor G3, seven years of updates and the best of Google AI in your pocket.",
		ShortDescription: "Pure Android with Tensor G3",
		Images:           []string{"https://images.unsplash.com/photo-1598327105666-5b89351aff97?w=800"},
		InStock:          true, Rating: 4.5, Reviews: 640,
	},
	{
		ID: 4, Name: "OnePlus 12", Category: "Mobile", Brand: "OnePlus",
		Price: 799, OriginalPrice: price(899),
		Description:      "Snapdragon 8 Gen 3, 100W charging and a Hasselblad tuned camera system.",
		ShortDescription: "Fast charging flagship",
		Images:           []string{"https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=800"},
		InStock:          false, Rating: 4.4, Reviews: 410,
	},
	{
		ID: 5, Name: "Floral Summer Maxi Dress", Category: "Dresses", Brand: "Zara",
		Price: 79.99, OriginalPrice: price(99.99),
		Description:      "Lightweight viscose maxi dress with a floral print and adjustable straps.",
		ShortDescription: "Breezy floral maxi",
		Images:           []string{"https://images.unsplash.com/photo-1572804013309-59a88b7e92f1?w=800"},
		InStock:          true, Rating: 4.6, Reviews: 320,
	},
	{
		ID: 6, Name: "Satin Evening Gown", Category: "Dresses", Brand: "H&M",
		Price:            149.5,
		Description:      "Floor length satin gown with a cowl neckline for formal evenings.",
		ShortDescription: "Elegant satin gown",
		Images:           []string{"https://images.unsplash.com/photo-1566174053879-31528523f8ae?w=800"},
		InStock:          true, Rating: 4.3, Reviews: 145,
	},
	{
		ID: 7, Name: "Classic Denim Jacket", Category: "Men", Brand: "Levi's",
		Price: 89.5, OriginalPrice: price(110),
		Description:      "The original trucker jacket in rigid denim with a relaxed fit.",
		ShortDescription: "Iconic trucker jacket",
		Images:           []string{"https://images.unsplash.com/photo-1551537482-f2075a1d41f2?w=800"},
		InStock:          true, Rating: 4.7, Reviews: 860,
	},
	{
		ID: 8, Name: "Slim Fit Oxford Shirt", Category: "Men", Brand: "Ralph Lauren",
		Price:            65,
		Description:      "Breathable cotton oxford shirt with a button-down collar.",
		ShortDescription: "Everyday oxford shirt",
		Images:           []string{"https://images.unsplash.com/photo-1596755094514-f87e34085b2c?w=800"},
		InStock:          true, Rating: 4.2, Reviews: 230,
	},
	{
		ID: 9, Name: "Running Sneakers Air Zoom", Category: "Men", Brand: "Nike",
		Price: 129.99, OriginalPrice: price(149.99),
		Description:      "Responsive foam cushioning and an engineered mesh upper for daily runs.",
		ShortDescription: "Responsive daily trainer",
		Images:           []string{"https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=800"},
		InStock:          true, Rating: 4.8, Reviews: 1520,
	},
	{
		ID: 10, Name: "Cashmere Blend Sweater", Category: "Women", Brand: "Uniqlo",
		Price:            59.9,
		Description:      "Soft cashmere blend crew neck sweater in a relaxed silhouette.",
		ShortDescription: "Soft crew neck knit",
		Images:           []string{"https://images.unsplash.com/photo-1576566588028-4147f3842f27?w=800"},
		InStock:          true, Rating: 4.5, Reviews: 410,
	},
	{
		ID: 11, Name: "Leather Tote Bag", Category: "Women", Brand: "Michael Kors",
		Price: 248, OriginalPrice: price(298),
		Description:      "Pebbled leather tote with an interior zip pocket and gold-tone hardware.",
		ShortDescription: "Roomy leather tote",
		Images:           []string{"https://images.unsplash.com/photo-1584917865442-de89df76afd3?w=800"},
		InStock:          true, Rating: 4.6, Reviews: 275,
	},
	{
		ID: 12, Name: "MacBook Pro 14", Category: "Laptops", Brand: "Apple",
		Price: 1999, OriginalPrice: price(2199),
		Description:      "M3 Pro chip, Liquid Retina XDR display and up to 18 hours of battery life.",
		ShortDescription: "M3 Pro powerhouse",
		Images: []string{
			"https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=800",
			"https://images.unsplash.com/photo-1611186871348-b1ce696e52c9?w=800",
		},
		InStock: true, Rating: 4.9, Reviews: 2100,
	},
	{
		ID: 13, Name: "Dell XPS 13", Category: "Laptops", Brand: "Dell",
		Price:            1299,
		Description:      "InfinityEdge display, Intel Core Ultra processor and a machined aluminium chassis.",
		ShortDescription: "Compact premium ultrabook",
		Images:           []string{"https://images.unsplash.com/photo-1593642702821-c8da6771f0c6?w=800"},
		InStock:          true, Rating: 4.5, Reviews: 780,
	},
	{
		ID: 14, Name: "Lenovo ThinkPad X1 Carbon", Category: "Laptops", Brand: "Lenovo",
		Price: 1649, OriginalPrice: price(1899),
		Description:      "Business ultrabook with a legendary keyboard and carbon fibre build.",
		ShortDescription: "Featherweight business laptop",
		Images:           []string{"https://images.unsplash.com/photo-1588872657578-7efd1f1555ed?w=800"},
		InStock:          false, Rating: 4.6, Reviews: 530,
	},
	{
		ID: 15, Name: "ASUS ROG Zephyrus G14", Category: "Laptops", Brand: "ASUS",
		Price:            1599,
		Description:      "Ryzen 9 and RTX 4070 graphics in a 14 inch gaming laptop.",
		ShortDescription: "Portable gaming rig",
		Images:           []string{"https://images.unsplash.com/photo-1603302576837-37561b2e2302?w=800"},
		InStock:          true, Rating: 4.7, Reviews: 690,
	},
}

// SeedProducts returns a fresh copy of the built-in catalog
func SeedProducts() []Product {
	out := make([]Product, len(seedCatalog))
	for i, p := range seedCatalog {
		out[i] = p.Clone()
	}
	return out
}
