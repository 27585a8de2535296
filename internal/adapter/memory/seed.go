package memory

import (
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err) // develop mistake
	}
	return t
}

func ptr[T any](v T) *T {
	return &v
}

// SeedCategories returns the sample storefront categories.
func SeedCategories() []domain.Category {
	return []domain.Category{
		{
			ID:          "1",
			Name:        "Électronique",
			Slug:        "electronique",
			Description: "Smartphones, laptops, accessoires et plus",
			Image:       "/assets/categories/electro.jpg",
		},
		{
			ID:          "2",
			Name:        "Mode Homme",
			Slug:        "mode-homme",
			Description: "Vêtements, chaussures et accessoires pour hommes",
			Image:       "/assets/categories/homme.jpg",
		},
		{
			ID:          "3",
			Name:        "Mode Femme",
			Slug:        "mode-femme",
			Description: "Robes, tops, chaussures et accessoires",
			Image:       "/assets/categories/femme.jpg",
		},
		{
			ID:          "4",
			Name:        "Maison & Déco",
			Slug:        "maison-deco",
			Description: "Meubles, décorations et accessoires maison",
			Image:       "/assets/categories/maison.jpg",
		},
		{
			ID:          "5",
			Name:        "Sport & Fitness",
			Slug:        "sport-fitness",
			Description: "Équipements sportifs et vêtements de sport",
			Image:       "/assets/categories/sport.jpg",
		},
	}
}

// SeedProducts returns the sample storefront products.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:            "1",
			Name:          "iPhone 15 Pro Max",
			Description:   "Le smartphone le plus avancé avec puce A17 Pro, appareil photo professionnel et design en titane.",
			Price:         1299.99,
			OriginalPrice: ptr(1499.99),
			Discount:      ptr(13),
			Image:         "/assets/products/electronique/electro1.jpg",
			Images: []string{
				"/assets/products/electronique/electro1.jpg",
				"/assets/products/electronique/electro2.jpg",
				"/assets/products/electronique/electro3.jpg",
				"/assets/products/electronique/electro4.jpg",
			},
			Category:     "Électronique",
			Stock:        45,
			Rating:       4.8,
			ReviewsCount: 1247,
			Brand:        "Apple",
			Slug:         "iphone-15-pro-max",
			CreatedAt:    day("2026-01-15"),
			UpdatedAt:    day("2026-02-01"),
		},
		{
			ID:            "2",
			Name:          `MacBook Pro 16" M3`,
			Description:   "Performance exceptionnelle avec la puce M3, écran Liquid Retina XDR et autonomie toute la journée.",
			Price:         2899.00,
			OriginalPrice: ptr(3299.00),
			Image:         "/assets/products/electronique/electro5.jpg",
			Images: []string{
				"/assets/products/electronique/electro5.jpg",
				"/assets/products/electronique/electro6.jpg",
				"/assets/products/electronique/electro8.jpg",
			},
			Category:     "Électronique",
			Stock:        23,
			Rating:       4.9,
			ReviewsCount: 856,
			Brand:        "Apple",
			Slug:         "macbook-pro-16-m3",
			CreatedAt:    day("2026-01-10"),
			UpdatedAt:    day("2026-02-05"),
		},
		{
			ID:          "3",
			Name:        "AirPods Pro 3",
			Description: "Réduction de bruit active améliorée, son spatial personnalisé et design ergonomique.",
			Price:       279.99,
			Image:       "/assets/products/electronique/electro11.jpg",
			Images: []string{
				"/assets/products/electronique/electro11.jpg",
				"/assets/products/electronique/electro12.jpg",
			},
			Category:     "Électronique",
			Stock:        234,
			Rating:       4.8,
			ReviewsCount: 1456,
			Brand:        "Apple",
			Slug:         "airpods-pro-3",
			CreatedAt:    day("2026-01-18"),
			UpdatedAt:    day("2026-02-04"),
		},
		{
			ID:            "4",
			Name:          "Veste en cuir premium",
			Description:   "Veste en cuir véritable de haute qualité. Style intemporel et confort optimal.",
			Price:         349.99,
			OriginalPrice: ptr(499.99),
			Image:         "/assets/products/mode-homme/homme1.png",
			Images: []string{
				"/assets/products/mode-homme/homme1.png",
				"/assets/products/mode-homme/homme2.png",
			},
			Category:     "Mode Homme",
			Stock:        34,
			Rating:       4.7,
			ReviewsCount: 267,
			Slug:         "veste-cuir-premium",
			CreatedAt:    day("2026-01-12"),
			UpdatedAt:    day("2026-02-01"),
		},
		{
			ID:            "5",
			Name:          "Chemise blanche classique",
			Description:   "Chemise en coton premium, coupe moderne et finition impeccable. Indispensable du dressing.",
			Price:         89.99,
			OriginalPrice: ptr(119.99),
			Discount:      ptr(25),
			Image:         "/assets/products/mode-homme/homme3.png",
			Images: []string{
				"/assets/products/mode-homme/homme3.png",
				"/assets/products/mode-homme/homme4.png",
			},
			Category:     "Mode Homme",
			Stock:        156,
			Rating:       4.5,
			ReviewsCount: 432,
			Slug:         "chemise-blanche-classique",
			CreatedAt:    day("2026-01-20"),
			UpdatedAt:    day("2026-02-03"),
		},
		{
			ID:          "6",
			Name:        "Jean slim fit noir",
			Description: "Jean stretch moderne avec coupe slim. Confortable et élégant pour toutes occasions.",
			Price:       129.99,
			Image:       "/assets/products/mode-homme/homme5.png",
			Images: []string{
				"/assets/products/mode-homme/homme5.png",
				"/assets/products/mode-homme/homme6.png",
			},
			Category:     "Mode Homme",
			Stock:        89,
			Rating:       4.6,
			ReviewsCount: 298,
			Slug:         "jean-slim-fit-noir",
			CreatedAt:    day("2026-01-25"),
			UpdatedAt:    day("2026-02-06"),
		},
		{
			ID:          "7",
			Name:        "Robe d'été florale",
			Description: "Robe légère et élégante parfaite pour l'été. Tissu respirant et coupe flatteuse.",
			Price:       89.99,
			Image:       "/assets/products/mode-femme/femme1.jpg",
			Images: []string{
				"/assets/products/mode-femme/femme1.jpg",
				"/assets/products/mode-femme/femme2.jpg",
			},
			Category:     "Mode Femme",
			Stock:        67,
			Rating:       4.7,
			ReviewsCount: 523,
			Slug:         "robe-ete-florale",
			CreatedAt:    day("2026-01-14"),
			UpdatedAt:    day("2026-02-02"),
		},
		{
			ID:            "8",
			Name:          "Sac à main cuir luxe",
			Description:   "Sac élégant en cuir véritable italien. Multiple compartiments et bandoulière ajustable.",
			Price:         449.99,
			OriginalPrice: ptr(599.99),
			Image:         "/assets/products/mode-femme/femme3.jpg",
			Images: []string{
				"/assets/products/mode-femme/femme3.jpg",
				"/assets/products/mode-femme/femme4.jpg",
			},
			Category:     "Mode Femme",
			Stock:        28,
			Rating:       4.8,
			ReviewsCount: 367,
			Slug:         "sac-main-cuir-luxe",
			CreatedAt:    day("2026-01-16"),
			UpdatedAt:    day("2026-02-03"),
		},
		{
			ID:            "9",
			Name:          "Bottines élégantes",
			Description:   "Bottines en cuir avec talon confortable. Style moderne et polyvalent.",
			Price:         189.99,
			OriginalPrice: ptr(249.99),
			Discount:      ptr(24),
			Image:         "/assets/products/mode-femme/femme5.jpg",
			Images: []string{
				"/assets/products/mode-femme/femme5.jpg",
				"/assets/products/mode-femme/femme6.jpg",
			},
			Category:     "Mode Femme",
			Stock:        45,
			Rating:       4.6,
			ReviewsCount: 189,
			Slug:         "bottines-elegantes",
			CreatedAt:    day("2026-01-22"),
			UpdatedAt:    day("2026-02-05"),
		},
		{
			ID:            "10",
			Name:          "Canapé d'angle moderne",
			Description:   "Canapé spacieux avec tissu haute qualité et design contemporain. Idéal pour les grands espaces.",
			Price:         1299.00,
			OriginalPrice: ptr(1599.00),
			Discount:      ptr(19),
			Image:         "/assets/products/maison-deco/maison1.jpg",
			Images: []string{
				"/assets/products/maison-deco/maison1.jpg",
				"/assets/products/maison-deco/maison2.jpg",
			},
			Category:     "Maison & Déco",
			Stock:        12,
			Rating:       4.5,
			ReviewsCount: 89,
			Slug:         "canape-angle-moderne",
			CreatedAt:    day("2026-01-05"),
			UpdatedAt:    day("2026-01-30"),
		},
		{
			ID:          "11",
			Name:        "Lampe design scandinave",
			Description: "Lampe de table au design minimaliste. Lumination chaude et ambiance cosy.",
			Price:       79.99,
			Image:       "/assets/products/maison-deco/maison3.jpg",
			Images: []string{
				"/assets/products/maison-deco/maison3.jpg",
				"/assets/products/maison-deco/maison4.jpg",
			},
			Category:     "Maison & Déco",
			Stock:        134,
			Rating:       4.4,
			ReviewsCount: 156,
			Slug:         "lampe-design-scandinave",
			CreatedAt:    day("2026-01-14"),
			UpdatedAt:    day("2026-02-02"),
		},
		{
			ID:            "12",
			Name:          "Nike Air Max 2026",
			Description:   "Confort ultime et style iconique. La nouvelle génération de Air Max pour tous vos mouvements.",
			Price:         179.99,
			OriginalPrice: ptr(219.99),
			Image:         "/assets/products/sport-fitness/sport1.jpg",
			Images: []string{
				"/assets/products/sport-fitness/sport1.jpg",
				"/assets/products/sport-fitness/sport2.jpg",
			},
			Category:     "Sport & Fitness",
			Stock:        78,
			Rating:       4.6,
			ReviewsCount: 542,
			Brand:        "Nike",
			Slug:         "nike-air-max-2026",
			CreatedAt:    day("2026-01-08"),
			UpdatedAt:    day("2026-02-03"),
		},
		{
			ID:          "13",
			Name:        "Tapis de yoga premium",
			Description: "Tapis antidérapant en caoutchouc naturel. Épaisseur optimale et design ergonomique.",
			Price:       49.99,
			Image:       "/assets/products/sport-fitness/sport3.jpg",
			Images: []string{
				"/assets/products/sport-fitness/sport3.jpg",
				"/assets/products/sport-fitness/sport4.jpg",
			},
			Category:     "Sport & Fitness",
			Stock:        234,
			Rating:       4.7,
			ReviewsCount: 423,
			Slug:         "tapis-yoga-premium",
			CreatedAt:    day("2026-01-11"),
			UpdatedAt:    day("2026-02-01"),
		},
	}
}

// SeedReviews returns the sample reviews. Only a few products have any.
func SeedReviews() []domain.Review {
	return []domain.Review{
		{
			ID:        "r1",
			UserID:    "u1",
			UserName:  "Sophie Martin",
			ProductID: "1",
			Rating:    5,
			Comment:   "Superbe appareil photo et une autonomie qui tient la journée.",
			CreatedAt: day("2026-01-20"),
		},
		{
			ID:        "r2",
			UserID:    "u2",
			UserName:  "Thomas Bernard",
			ProductID: "1",
			Rating:    5,
			Comment:   "Le titane le rend vraiment léger. Aucun regret.",
			CreatedAt: day("2026-01-24"),
		},
		{
			ID:        "r3",
			UserID:    "u3",
			UserName:  "Camille Petit",
			ProductID: "1",
			Rating:    4,
			Comment:   "Excellent téléphone, mais le prix reste élevé.",
			CreatedAt: day("2026-01-28"),
		},
		{
			ID:        "r4",
			UserID:    "u4",
			UserName:  "Lucas Moreau",
			ProductID: "1",
			Rating:    3,
			Comment:   "Chauffe un peu en charge rapide.",
			CreatedAt: day("2026-02-02"),
		},
		{
			ID:        "r5",
			UserID:    "u2",
			UserName:  "Thomas Bernard",
			ProductID: "3",
			Rating:    5,
			Comment:   "La réduction de bruit est bluffante dans le métro.",
			CreatedAt: day("2026-01-19"),
		},
		{
			ID:        "r6",
			UserID:    "u5",
			UserName:  "Emma Laurent",
			ProductID: "3",
			Rating:    4,
			Comment:   "Très bon son, boîtier un peu fragile.",
			CreatedAt: day("2026-01-30"),
		},
		{
			ID:        "r7",
			UserID:    "u1",
			UserName:  "Sophie Martin",
			ProductID: "13",
			Rating:    5,
			Comment:   "Ne glisse pas du tout, même pendant les séances intenses.",
			CreatedAt: day("2026-01-14"),
		},
		{
			ID:        "r8",
			UserID:    "u6",
			UserName:  "Hugo Girard",
			ProductID: "13",
			Rating:    4,
			Comment:   "Confortable, l'odeur de caoutchouc part après quelques jours.",
			CreatedAt: day("2026-01-22"),
		},
	}
}
