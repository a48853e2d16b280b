package registry

func init() {
	Register(Track{
		ID:         "classic",
		Title:      "Classic Two-Lane",
		Width:      400,
		Lanes:      []float64{100, 220},
		SideMargin: 100,
	})
	Register(Track{
		ID:         "highway",
		Title:      "Three-Lane Highway",
		Width:      520,
		Lanes:      []float64{100, 220, 340},
		SideMargin: 100,
	})
	Register(Track{
		ID:         "backroad",
		Title:      "Narrow Back Road",
		Width:      320,
		Lanes:      []float64{70, 190},
		SideMargin: 70,
	})
}
