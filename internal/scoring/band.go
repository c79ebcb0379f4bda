package scoring

// Band is the qualitative rendering of a percentage.
type Band struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var bands = []struct {
	min  float64
	band Band
}{
	{90, Band{Label: "excellent", Color: "green"}},
	{75, Band{Label: "good", Color: "blue"}},
	{60, Band{Label: "fair", Color: "yellow"}},
	{40, Band{Label: "poor", Color: "orange"}},
}

var criticalBand = Band{Label: "critical", Color: "red"}

// BandFor maps a percentage to its band. Each threshold is inclusive.
func BandFor(percent float64) Band {
	for _, b := range bands {
		if percent >= b.min {
			return b.band
		}
	}
	return criticalBand
}

func ColorFor(percent float64) string {
	return BandFor(percent).Color
}

func LabelFor(percent float64) string {
	return BandFor(percent).Label
}
