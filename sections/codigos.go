package sections

// Static decode tables for the single-letter codes the companion control
// surface stores for construction rows. The form's selectors show the full
// label, the draft keeps only the letter.

var EstadosConservacion = map[string]string{
	"B": "BUENO",
	"R": "REGULAR",
	"M": "MALO",
	"E": "EXCELENTE",
}

var TiposEstructura = map[string]string{
	"C": "CONCRETO",
	"L": "LADRILLO",
	"A": "ADOBE",
	"M": "MADERA",
	"P": "PREFABRICADO",
}

var MaterialesCubierta = map[string]string{
	"T": "TEJA DE BARRO",
	"Z": "ZINC",
	"E": "ETERNIT",
	"P": "PLACA",
	"S": "PAJA",
}

var CalidadesAcabado = map[string]string{
	"L": "LUJOSO",
	"B": "BUENO",
	"S": "SENCILLO",
	"P": "POBRE",
}

// DecodeAtributo resolves a single-letter code through a table; unknown codes
// pass through unchanged so the dropdown matcher can still try them as given.
func DecodeAtributo(table map[string]string, code string) string {
	if label, ok := table[code]; ok {
		return label
	}
	return code
}
