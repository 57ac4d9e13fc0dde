package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldSearch(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Élysée", "elysee"},
		{"  Maison   du Café ", "maison du cafe"},
		{"ÇA GARÇON", "ca garcon"},
		{"Öl & Wärme", "ol & warme"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FoldSearch(tt.input))
		})
	}
}

func TestSearchText(t *testing.T) {
	assert.Equal(t, "societe generale sg 552120222", SearchText("Société Générale", "", "SG", "552120222"))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%100\\%\\_cafe%", containsPattern("100%_Café"))
}
