package gameimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "empty",
			content: "",
			want:    nil,
		},
		{
			name:    "blank and comment lines only",
			content: "\n  \n# my wishlist\n\t\n",
			want:    nil,
		},
		{
			name:    "plain list",
			content: "Catan\nWingspan\nAzul",
			want:    []string{"Catan", "Wingspan", "Azul"},
		},
		{
			name:    "numbered with dots",
			content: "1. Catan\n2. Wingspan",
			want:    []string{"Catan", "Wingspan"},
		},
		{
			name:    "numbered with parens",
			content: "1) Catan\n2) Wingspan",
			want:    []string{"Catan", "Wingspan"},
		},
		{
			name:    "csv takes first field",
			content: "Catan,2019\nAzul,2017",
			want:    []string{"Catan", "Azul"},
		},
		{
			name:    "csv strips surrounding quotes",
			content: `"Ticket to Ride",2004` + "\n'Azul',2017",
			want:    []string{"Ticket to Ride", "Azul"},
		},
		{
			name:    "csv detection uses first surviving line",
			content: "# exported collection\nCatan,2019\nAzul,2017",
			want:    []string{"Catan", "Azul"},
		},
		{
			name:    "plain mode keeps commas in later lines",
			content: "Catan\nTzolk'in, The Mayan Calendar",
			want:    []string{"Catan", "Tzolk'in, The Mayan Calendar"},
		},
		{
			name:    "whitespace trimmed and blanks dropped",
			content: "  Catan  \n\n   \nWingspan",
			want:    []string{"Catan", "Wingspan"},
		},
		{
			name:    "duplicates kept",
			content: "Catan\nCatan",
			want:    []string{"Catan", "Catan"},
		},
		{
			name:    "numbering only line dropped",
			content: "1. Catan\n2.\n3. Azul",
			want:    []string{"Catan", "Azul"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseList(tt.content))
		})
	}
}
