// Package geo holds the Cuban administrative division used for shipping
// tiers: provinces, their municipalities, and the city/municipio split.
package geo

// CapitalRegion is the province whose municipalities are classified by the
// urban allow-set instead of by capital municipality.
const CapitalRegion = "La Habana"

type province struct {
	name           string
	capital        string
	municipalities []string
}

// provinces is ordered west to east; municipality order follows the
// official listing for each province.
var provinces = []province{
	{
		name:    "Pinar del Río",
		capital: "Pinar del Río",
		municipalities: []string{
			"Sandino", "Mantua", "Minas de Matahambre", "Viñales", "La Palma",
			"Los Palacios", "Consolación del Sur", "Pinar del Río", "San Luis",
			"San Juan y Martínez", "Guane",
		},
	},
	{
		name:    "Artemisa",
		capital: "Artemisa",
		municipalities: []string{
			"Mariel", "Guanajay", "Caimito", "Bauta", "San Antonio de los Baños",
			"Güira de Melena", "Alquízar", "Artemisa", "Bahía Honda",
			"Candelaria", "San Cristóbal",
		},
	},
	{
		name:    CapitalRegion,
		capital: "Plaza de la Revolución",
		municipalities: []string{
			"Playa", "Plaza de la Revolución", "Centro Habana", "La Habana Vieja",
			"Regla", "La Habana del Este", "Guanabacoa", "San Miguel del Padrón",
			"Diez de Octubre", "Cerro", "Marianao", "La Lisa", "Boyeros",
			"Arroyo Naranjo", "Cotorro",
		},
	},
	{
		name:    "Mayabeque",
		capital: "San José de las Lajas",
		municipalities: []string{
			"Bejucal", "San José de las Lajas", "Jaruco", "Santa Cruz del Norte",
			"Madruga", "Nueva Paz", "San Nicolás", "Güines", "Melena del Sur",
			"Batabanó", "Quivicán",
		},
	},
	{
		name:    "Matanzas",
		capital: "Matanzas",
		municipalities: []string{
			"Matanzas", "Cárdenas", "Martí", "Colón", "Perico", "Jovellanos",
			"Pedro Betancourt", "Limonar", "Unión de Reyes", "Ciénaga de Zapata",
			"Jagüey Grande", "Calimete", "Los Arabos",
		},
	},
	{
		name:    "Cienfuegos",
		capital: "Cienfuegos",
		municipalities: []string{
			"Aguada de Pasajeros", "Rodas", "Palmira", "Lajas", "Cruces",
			"Cumanayagua", "Cienfuegos", "Abreus",
		},
	},
	{
		name:    "Villa Clara",
		capital: "Santa Clara",
		municipalities: []string{
			"Corralillo", "Quemado de Güines", "Sagua la Grande", "Encrucijada",
			"Camajuaní", "Caibarién", "Remedios", "Placetas", "Santa Clara",
			"Cifuentes", "Santo Domingo", "Ranchuelo", "Manicaragua",
		},
	},
	{
		name:    "Sancti Spíritus",
		capital: "Sancti Spíritus",
		municipalities: []string{
			"Yaguajay", "Jatibonico", "Taguasco", "Cabaiguán", "Fomento",
			"Trinidad", "Sancti Spíritus", "La Sierpe",
		},
	},
	{
		name:    "Ciego de Ávila",
		capital: "Ciego de Ávila",
		municipalities: []string{
			"Chambas", "Morón", "Bolivia", "Primero de Enero", "Ciro Redondo",
			"Florencia", "Majagua", "Ciego de Ávila", "Venezuela", "Baraguá",
		},
	},
	{
		name:    "Camagüey",
		capital: "Camagüey",
		municipalities: []string{
			"Carlos Manuel de Céspedes", "Esmeralda", "Sierra de Cubitas",
			"Minas", "Nuevitas", "Guáimaro", "Sibanicú", "Camagüey", "Florida",
			"Vertientes", "Jimaguayú", "Najasa", "Santa Cruz del Sur",
		},
	},
	{
		name:    "Las Tunas",
		capital: "Las Tunas",
		municipalities: []string{
			"Manatí", "Puerto Padre", "Jesús Menéndez", "Majibacoa", "Las Tunas",
			"Jobabo", "Colombia", "Amancio",
		},
	},
	{
		name:    "Holguín",
		capital: "Holguín",
		municipalities: []string{
			"Gibara", "Rafael Freyre", "Banes", "Antilla", "Báguanos", "Holguín",
			"Calixto García", "Cacocum", "Urbano Noris", "Cueto", "Mayarí",
			"Frank País", "Sagua de Tánamo", "Moa",
		},
	},
	{
		name:    "Granma",
		capital: "Bayamo",
		municipalities: []string{
			"Río Cauto", "Cauto Cristo", "Jiguaní", "Bayamo", "Yara", "Manzanillo",
			"Campechuela", "Media Luna", "Niquero", "Pilón", "Bartolomé Masó",
			"Buey Arriba", "Guisa",
		},
	},
	{
		name:    "Santiago de Cuba",
		capital: "Santiago de Cuba",
		municipalities: []string{
			"Contramaestre", "Mella", "San Luis", "Segundo Frente",
			"Songo-La Maya", "Santiago de Cuba", "Palma Soriano",
			"Tercer Frente", "Guamá",
		},
	},
	{
		name:    "Guantánamo",
		capital: "Guantánamo",
		municipalities: []string{
			"El Salvador", "Manuel Tames", "Yateras", "Baracoa", "Maisí", "Imías",
			"San Antonio del Sur", "Caimanera", "Guantánamo", "Niceto Pérez",
		},
	},
	{
		name:           "Isla de la Juventud",
		capital:        "Isla de la Juventud",
		municipalities: []string{"Isla de la Juventud"},
	},
}

// habanaUrban is the allow-set of capital-region municipalities priced as city.
var habanaUrban = []string{
	"Playa",
	"Plaza de la Revolución",
	"Centro Habana",
	"La Habana Vieja",
	"Regla",
	"Cerro",
	"Diez de Octubre",
	"Marianao",
}

// provinceAliases maps normalized alternate spellings to canonical names.
var provinceAliases = map[string]string{
	"habana":              CapitalRegion,
	"ciudad de la habana": CapitalRegion,
	"ciudad habana":       CapitalRegion,
	"isla de pinos":       "Isla de la Juventud",
}

var (
	byKey     map[string]*province
	urbanKeys map[string]struct{}
)

func init() {
	byKey = make(map[string]*province, len(provinces)+len(provinceAliases))
	for i := range provinces {
		byKey[Normalize(provinces[i].name)] = &provinces[i]
	}
	for alias, canonical := range provinceAliases {
		byKey[alias] = byKey[Normalize(canonical)]
	}
	urbanKeys = make(map[string]struct{}, len(habanaUrban))
	for _, m := range habanaUrban {
		urbanKeys[Normalize(m)] = struct{}{}
	}
}

func lookup(name string) (*province, bool) {
	p, ok := byKey[Normalize(name)]
	return p, ok
}

// Provinces returns the province names in their canonical order.
func Provinces() []string {
	out := make([]string, len(provinces))
	for i, p := range provinces {
		out[i] = p.name
	}
	return out
}

// Municipalities returns the ordered municipalities of a province, or false
// if the province is unknown. The returned slice is a copy.
func Municipalities(provinceName string) ([]string, bool) {
	p, ok := lookup(provinceName)
	if !ok {
		return nil, false
	}
	out := make([]string, len(p.municipalities))
	copy(out, p.municipalities)
	return out, true
}

// CanonicalProvince returns the canonical spelling of a province name.
func CanonicalProvince(name string) (string, bool) {
	p, ok := lookup(name)
	if !ok {
		return "", false
	}
	return p.name, true
}

// CapitalOf returns the capital municipality of a province.
func CapitalOf(provinceName string) (string, bool) {
	p, ok := lookup(provinceName)
	if !ok {
		return "", false
	}
	return p.capital, true
}

// IsValidMunicipality reports whether municipality belongs to province,
// comparing names accent- and case-insensitively.
func IsValidMunicipality(provinceName, municipality string) bool {
	p, ok := lookup(provinceName)
	if !ok {
		return false
	}
	key := Normalize(municipality)
	if key == "" {
		return false
	}
	for _, m := range p.municipalities {
		if Normalize(m) == key {
			return true
		}
	}
	return false
}
