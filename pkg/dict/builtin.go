package dict

import "strconv"

// Built-in table IDs. A dictionary directory with the same ID overrides or
// extends the built-in table.
const (
	MaterialsID         = "materials-en"
	CountriesID         = "countries"
	MaterialImagesID    = "material-images"
	ConservatorImagesID = "conservator-images"
)

var builtinMaterials = map[string]string{
	"terre cuite":               "Terracotta",
	"terraglia":                 "Creamware",
	"porcelaine":                "Porcellain",
	"porcellaine":               "Porcellain",
	"porceclaine":               "Porcellain",
	"faïence":                   "Earthenware",
	"grés":                      "Stonewear",
	"quartz":                    "Quartz",
	"mixte":                     "Mix",
	"métal":                     "Metal",
	"mixte(terre cuite+quartz)": "Mix (Terracotta + Quartz)",
	"mixte (grés + métal)":      "Mix (Stonewear + Metal)",
}

type coordinates struct {
	name     string
	lat, lng float64
}

// ISO 3166 numeric codes, plus two regional pseudo-codes used by the dataset.
var builtinCountries = map[string]coordinates{
	"250": {"France", 46.2276, 2.2137},
	"380": {"Italy", 41.8719, 12.5674},
	"276": {"Germany", 51.1657, 10.4515},
	"724": {"Spain", 40.4637, -3.7492},
	"56":  {"Belgium", 50.5039, 4.4699},
	"528": {"Netherlands", 52.1326, 5.2913},
	"246": {"Finland", 61.9241, 25.7482},
	"756": {"Switzerland", 46.8182, 8.2275},
	"156": {"China", 35.8617, 104.1954},
	"364": {"Iran", 32.4279, 53.6880},
	"356": {"India", 20.5937, 78.9629},
	"368": {"Iraq", 33.2232, 43.6793},
	"616": {"Poland", 51.9194, 19.1451},
	"620": {"Portugal", 39.3999, -8.2245},
	"818": {"Egypt", 26.8206, 30.8025},
	"826": {"United Kingdom", 55.3781, -3.4360},
	"642": {"Romania", 45.9432, 24.9668},
	"392": {"Japan", 36.2048, 138.2529},
	"MAG": {"Maghreb", 32.0000, -5.0000},
	"604": {"Peru", -12.0464, -77.0428},
	"MED": {"Mediterranean", 41.0082, 28.9784},
	"788": {"Tunisia", 33.8869, 9.5375},
}

var builtinMaterialImages = map[string]string{
	"Earthenware":               "assets/materials/fa-ence.jpg",
	"Stonewear":                 "assets/materials/gr-s.jpg",
	"Mix (Stonewear + Metal)":   "assets/materials/mixte--gr-s---m-tal-.jpg",
	"Mix (Terracotta + Quartz)": "assets/materials/mixte-terre-cuite-quartz-.jpg",
	"Porcellain":                "assets/materials/porceclaine.jpg",
	"Creamware":                 "assets/materials/terraglia.jpg",
	"Terracotta":                "assets/materials/terre-cuite.jpg",
}

var builtinConservatorImages = map[string]string{
	"Sèvres - Manufacture et Musée nationaux":            "assets/catalogue/Sèvres visualizazzioni",
	"MIC Museo Internazionale della Ceramica in Faenza": "assets/catalogue/Faenza visualizazzioni",
}

// Builtin returns the built-in lookup tables keyed by ID.
func Builtin() map[string]*Dictionary {
	return map[string]*Dictionary{
		MaterialsID:         builtinValues(MaterialsID, KindTranslation, "lowercase_utf8", builtinMaterials),
		CountriesID:         builtinCoordinates(),
		MaterialImagesID:    builtinValues(MaterialImagesID, KindAsset, "none", builtinMaterialImages),
		ConservatorImagesID: builtinValues(ConservatorImagesID, KindAsset, "lowercase_utf8", builtinConservatorImages),
	}
}

func builtinValues(id, kind, normalize string, table map[string]string) *Dictionary {
	entries := make(map[string]*Entry, len(table))
	for k, v := range table {
		entries[k] = &Entry{Value: v}
	}
	return New(&Manifest{
		ID:      id,
		Version: "builtin",
		Kind:    kind,
		Source:  "builtin",
		Format:  FormatSpec{Normalize: normalize},
	}, entries)
}

func builtinCoordinates() *Dictionary {
	entries := make(map[string]*Entry, len(builtinCountries))
	for code, c := range builtinCountries {
		entries[code] = &Entry{
			Value: c.name,
			Metadata: map[string]string{
				"lat": strconv.FormatFloat(c.lat, 'f', -1, 64),
				"lng": strconv.FormatFloat(c.lng, 'f', -1, 64),
			},
		}
	}
	return New(&Manifest{
		ID:      CountriesID,
		Version: "builtin",
		Kind:    KindCoordinates,
		Source:  "builtin",
		Format:  FormatSpec{Normalize: "lowercase_utf8"},
	}, entries)
}
