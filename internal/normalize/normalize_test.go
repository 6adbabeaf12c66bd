package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "MARGAUX", "margaux"},
		{"strips chateau prefix", "Château Margaux", "margaux"},
		{"strips ascii chateau", "Chateau Lafite-Rothschild", "lafite rothschild"},
		{"strips domaine", "Domaine de la Romanée-Conti", "de la romanee conti"},
		{"strips abbreviated ch", "Ch. Latour", "latour"},
		{"strips abbreviated dom", "Dom. Leflaive", "leflaive"},
		{"keeps undotted dom", "Dom Pérignon", "dom perignon"},
		{"keeps mid word chateau", "Châteauneuf-du-Pape", "chateauneuf du pape"},
		{"keeps non leading chateau", "Vieux Château Certan", "vieux chateau certan"},
		{"strips stacked prefixes", "Château Domaine Faiveley", "faiveley"},
		{"folds diacritics", "Pétrus", "petrus"},
		{"hyphens become spaces", "Sassicaia-Bolgheri", "sassicaia bolgheri"},
		{"collapses whitespace", "  Oreno   Toscana ", "oreno toscana"},
		{"keeps digits", "Krug Rosé 29ème Édition", "krug rose 29eme edition"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.in))
		})
	}
}

func TestNameWith(t *testing.T) {
	got := NameWith("Tenuta San Guido", []string{"tenuta"})
	assert.Equal(t, "san guido", got)

	// Default prefixes stay untouched with a custom set.
	got = NameWith("Château Margaux", []string{"tenuta"})
	assert.Equal(t, "chateau margaux", got)
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "1480.00", "1480.00"},
		{"apostrophe separator", "1'480.00", "1480.00"},
		{"repeated separators", "1'480'000.00", "1480000.00"},
		{"curly right apostrophe", "1’480.00", "1480.00"},
		{"curly left apostrophe", "1‘480.00", "1480.00"},
		{"modifier apostrophe", "1ʼ480.00", "1480.00"},
		{"stray middle zero", "1150.0.00", "1150.00"},
		{"double dots", "1234..56", "1234.56"},
		{"triple dots", "1234...56", "1234.56"},
		{"unknown shape untouched", "12.345.678", "12.345.678"},
		{"non numeric untouched", "on request", "on request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(tt.in))
		})
	}
}

func TestParsePrice(t *testing.T) {
	v, err := ParsePrice(" 1'480.00 ")
	require.NoError(t, err)
	assert.InDelta(t, 1480.0, v, 1e-9)

	v, err = ParsePrice("1150.0.00")
	require.NoError(t, err)
	assert.InDelta(t, 1150.0, v, 1e-9)

	_, err = ParsePrice("sur demande")
	assert.Error(t, err)

	_, err = ParsePrice("")
	assert.Error(t, err)
}
