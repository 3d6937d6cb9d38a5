package inventory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NameKey normaliza el nombre de un producto a su clave canónica de búsqueda:
// NFC, sin espacios en los extremos, espacios internos colapsados y plegado de mayúsculas.
// Dos nombres con la misma clave se consideran el mismo producto dentro del tenant.
func NameKey(name string) string {
	s := norm.NFC.String(name)
	s = strings.Join(strings.Fields(s), " ")
	// Un Caser no se comparte entre goroutines.
	return cases.Fold().String(s)
}

// DisplayName limpia el nombre conservando mayúsculas (se guarda como nombre para mostrar).
func DisplayName(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}
