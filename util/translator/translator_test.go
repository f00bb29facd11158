package translator

import (
	"testing"

	"golang.org/x/text/language"
)

func TestTrans(t *testing.T) {
	tests := []struct {
		name string
		tag  language.Tag
		key  string
		args []any
		want string
	}{
		{"english", language.English, "Customer", nil, "Customer"},
		{"french", language.French, "Order canceled", nil, "Commande annulée"},
		{"english with arg", language.English, "Expiration %d months", []any{18}, "Expiration 18 months"},
		{"french with arg", language.French, "Expiration %d months", []any{18}, "Expiration 18 mois"},
		{"fallback to english", language.Thai, "Administrator", nil, "Administrator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trans := New(tt.tag)
			if got := trans.Trans(tt.key, tt.args...); got != tt.want {
				t.Errorf("Trans(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
