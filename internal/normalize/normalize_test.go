package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", StatusPending},
		{"PENDIENTE", StatusPending},
		{"pendiente", StatusPending},
		{"PENDING", StatusPending},
		{"ACEPTADO", StatusApproved},
		{"ACEPTADA", StatusApproved},
		{"aceptada", StatusApproved},
		{"ACCEPTED", StatusApproved},
		{"APPROVED", StatusApproved},
		{"RECHAZADO", StatusRejected},
		{"RECHAZADA", StatusRejected},
		{"REJECTED", StatusRejected},
		{"  PENDING  ", StatusPending},
		// unknown values pass through lowercased instead of disappearing
		{"ARCHIVED", "archived"},
		{"WeIrD", "weird"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.raw), "Status(%q)", tc.raw)
	}
}

func TestStatusIdempotent(t *testing.T) {
	for _, raw := range []string{"PENDIENTE", "ACEPTADO", "RECHAZADA", "ARCHIVED", ""} {
		once := Status(raw)
		assert.Equal(t, once, Status(once), "Status not idempotent for %q", raw)
	}
}

func TestCategory(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"Restaurante", "restaurant"},
		{"RESTAURANTES", "restaurant"},
		{"comida", "restaurant"},
		{"Hotel", "hotel"},
		{"hoteles", "hotel"},
		{"Naturaleza", "natural"},
		{"parque", "natural"},
		{"Mirador", "viewpoint"},
		{"miradores", "viewpoint"},
		// the museum alias is historical and deliberate
		{"Museo", "viewpoint"},
		{"museum", "viewpoint"},
		// diacritics are stripped before the synonym lookup
		{"Cafetería", "cafeteria"},
		{"  MIRADOR  ", "viewpoint"},
		// unknown categories survive, cleaned
		{"Playa", "playa"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Category(tc.raw), "Category(%q)", tc.raw)
	}
}

func TestCategoryIdempotent(t *testing.T) {
	for _, raw := range []string{"Restaurante", "Museo", "Cafetería", "playa"} {
		once := Category(raw)
		assert.Equal(t, once, Category(once), "Category not idempotent for %q", raw)
	}
}

func TestCategoryFromDescription(t *testing.T) {
	t.Run("extracts the embedded category", func(t *testing.T) {
		got := CategoryFromDescription("Categoría: Hotel - Ubicación: Centro")
		assert.Equal(t, "Hotel", got)
	})

	t.Run("tolerates the undiacritized spelling", func(t *testing.T) {
		got := CategoryFromDescription("categoria: Mirador - Ubicación: Norte")
		assert.Equal(t, "Mirador", got)
	})

	t.Run("empty when nothing is embedded", func(t *testing.T) {
		assert.Equal(t, "", CategoryFromDescription("Un lugar bonito"))
		assert.Equal(t, "", CategoryFromDescription(""))
	})

	t.Run("composes with Category for legacy rows", func(t *testing.T) {
		desc := "Categoría: Museo - Ubicación: Casco Antiguo"
		assert.Equal(t, "viewpoint", Category(CategoryFromDescription(desc)))
	})
}
