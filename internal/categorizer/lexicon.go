package categorizer

import "finledger/internal/core"

// keywords maps a surface word to its category. Keys are lemmatized when
// the lookup table is built, so plural and singular spellings are equivalent.
var keywords = []struct {
	word     string
	category core.Category
}{
	{"food", core.Groceries},
	{"supermarket", core.Groceries},
	{"rent", core.Rent},
	{"electricity", core.Utilities},
	{"water", core.Utilities},
	{"movie", core.Entertainment},
	{"cinema", core.Entertainment},
	{"bus", core.Transportation},
	{"car", core.Transportation},
	{"fuel", core.Transportation},
	{"uber", core.Transportation},
	{"clothes", core.Shopping},
	{"shopping", core.Shopping},
	{"hospital", core.Health},
	{"medication", core.Health},
	{"trip", core.Entertainment},
	{"shoes", core.Shopping},
	{"drugs", core.Health},
}

// synsets groups words sharing a sense. A word's synonyms are the members of
// every group it belongs to, in declaration order.
var synsets = [][]string{
	{"food", "nutrient", "foodstuff", "grocery", "provisions", "victuals", "meal", "repast"},
	{"supermarket", "grocery", "grocer", "market", "hypermarket", "minimarket", "deli"},
	{"rent", "rental", "lease", "letting", "tenancy", "landlord"},
	{"electricity", "power", "energy", "electric", "kilowatt"},
	{"water", "h2o", "waterworks", "sewage"},
	{"movie", "film", "picture", "flick", "screening"},
	{"cinema", "theater", "theatre", "multiplex", "imax"},
	{"trip", "journey", "travel", "vacation", "holiday", "excursion", "tour", "outing", "getaway"},
	{"bus", "autobus", "coach", "omnibus", "minibus", "shuttle", "tram", "metro", "subway", "train"},
	{"car", "auto", "automobile", "motorcar", "taxi", "cab", "vehicle", "parking", "toll"},
	{"fuel", "gasoline", "petrol", "diesel"},
	{"uber", "lyft", "rideshare", "bolt"},
	{"clothes", "clothing", "apparel", "garment", "attire", "outfit", "wear", "shirt", "jacket", "dress", "jeans", "trousers"},
	{"shopping", "purchase", "buy", "store", "mall", "retail", "boutique"},
	{"shoes", "shoe", "footwear", "sneaker", "boot", "sandal", "heel"},
	{"hospital", "clinic", "infirmary", "doctor", "physician", "dentist", "checkup"},
	{"medication", "medicine", "medicament", "pharmacy", "prescription", "pill", "vaccine"},
	{"drugs", "drug", "pharmaceutical", "antibiotic", "painkiller", "aspirin"},
}

// irregular maps inflected forms no suffix rule can recover.
var irregular = map[string]string{
	"bought":   "buy",
	"paid":     "pay",
	"spent":    "spend",
	"went":     "go",
	"rode":     "ride",
	"ridden":   "ride",
	"drove":    "drive",
	"driven":   "drive",
	"ate":      "eat",
	"children": "child",
	"men":      "man",
	"women":    "woman",
	"feet":     "foot",
	"teeth":    "tooth",
	"people":   "person",
	"mice":     "mouse",
}
