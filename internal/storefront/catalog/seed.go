package catalog

// DefaultProducts is the launch line-up of the shop.
func DefaultProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Robot Mochi - Robot Pintar dan Lucu",
			Price:       250000,
			Description: "Robot Mochi: robot pintar dan interaktif untuk edukasi, hadiah maupun hiasan. Sensor sentuh, mode otomatis, bisa di cas ulang.",
			ImageRef:    "https://picsum.photos/seed/mochi1/600/400",
		},
		{
			ID:          2,
			Name:        "Dasai Mochi Robot",
			Price:       180000,
			Description: "Versi sederhana dari Mochi dengan fitur dasar: sensor sentuh, mode otomatis, bisa di cas ulang.",
			ImageRef:    "https://picsum.photos/seed/mochi2/600/400",
		},
		{
			ID:          3,
			Name:        "Robot Mochi - Non Battery",
			Price:       90000,
			Description: "Versi non-battery: fitur sama.",
			ImageRef:    "https://picsum.photos/seed/mochi3/600/400",
		},
		{
			ID:          4,
			Name:        "Dasai Mochi Robot - Non Battery",
			Price:       60000,
			Description: "Dasai Mochi non-battery: fitur sama.",
			ImageRef:    "https://picsum.photos/seed/mochi4/600/400",
		},
	}
}

// Default returns a catalog built from DefaultProducts.
func Default() *Catalog {
	c, err := New(DefaultProducts())
	if err != nil {
		panic(err)
	}
	return c
}
