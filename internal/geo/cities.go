package geo

// WholeCountry is the sentinel location that expands to every known city.
const WholeCountry = "Celé Slovensko"

// City is one entry of the static city table.
type City struct {
	Name string
	Lat  float64
	Lng  float64
}

// Cities is the canonical city table, ordered by population. The order is
// fixed: a persisted city index must mean the same city across releases, so
// entries are only ever appended.
var Cities = []City{
	{"Bratislava", 48.1486, 17.1077},
	{"Košice", 48.7164, 21.2611},
	{"Prešov", 48.9986, 21.2339},
	{"Žilina", 49.2231, 18.7394},
	{"Nitra", 48.3069, 18.0864},
	{"Banská Bystrica", 48.7363, 19.1462},
	{"Trnava", 48.3774, 17.5883},
	{"Trenčín", 48.8945, 18.0444},
	{"Martin", 49.0665, 18.9235},
	{"Poprad", 49.0594, 20.2979},
	{"Prievidza", 48.7746, 18.6270},
	{"Zvolen", 48.5762, 19.1371},
	{"Považská Bystrica", 49.1215, 18.4451},
	{"Michalovce", 48.7543, 21.9195},
	{"Nové Zámky", 47.9860, 18.1612},
	{"Spišská Nová Ves", 48.9445, 20.5615},
	{"Komárno", 47.7633, 18.1283},
	{"Humenné", 48.9370, 21.9072},
	{"Levice", 48.2157, 18.6069},
	{"Bardejov", 49.2945, 21.2762},
	{"Liptovský Mikuláš", 49.0832, 19.6122},
	{"Lučenec", 48.3318, 19.6672},
	{"Piešťany", 48.5920, 17.8287},
	{"Ružomberok", 49.0785, 19.3060},
	{"Topoľčany", 48.5616, 18.1732},
	{"Trebišov", 48.6283, 21.7193},
	{"Čadca", 49.4387, 18.7895},
	{"Dubnica nad Váhom", 48.9599, 18.1661},
	{"Rimavská Sobota", 48.3827, 20.0222},
	{"Partizánske", 48.6277, 18.3810},
	{"Vranov nad Topľou", 48.8894, 21.6854},
	{"Šaľa", 48.1510, 17.8807},
	{"Hlohovec", 48.4318, 17.8031},
	{"Brezno", 48.8038, 19.6438},
	{"Senica", 48.6805, 17.3668},
	{"Nové Mesto nad Váhom", 48.7577, 17.8309},
	{"Snina", 48.9886, 22.1567},
	{"Dolný Kubín", 49.2093, 19.2962},
	{"Žiar nad Hronom", 48.5909, 18.8490},
	{"Pezinok", 48.2897, 17.2664},
}

// Lookup returns the coordinates of a known city by exact name match.
func Lookup(name string) (City, bool) {
	for _, c := range Cities {
		if c.Name == name {
			return c, true
		}
	}
	return City{}, false
}
