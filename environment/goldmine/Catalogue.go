package goldmine

// Kind describes a type of collectible which can be spawned
type Kind struct {
	Name     string
	Category string
	Value    int
	Weight   float64
	Radius   float64
	Costly   bool
}

// Categories of collectibles
const (
	Gold = "gold"
	Rock = "rock"
)

var (
	// GoldKinds lists the kinds of gold, each spawned with equal
	// probability
	GoldKinds = []Kind{
		{Name: "gold_small", Category: Gold, Value: 50, Weight: 0.5, Radius: 0.3},
		{Name: "gold_medium", Category: Gold, Value: 150, Weight: 1.0, Radius: 0.45},
		{Name: "gold_large", Category: Gold, Value: 500, Weight: 2.0, Radius: 0.7},
	}

	// RockKinds lists the kinds of rock, each spawned with equal
	// probability
	RockKinds = []Kind{
		{Name: "rock_small", Category: Rock, Value: 11, Weight: 1.2, Radius: 0.4,
			Costly: true},
		{Name: "rock_large", Category: Rock, Value: 20, Weight: 2.5, Radius: 0.6,
			Costly: true},
	}
)
