package models

import "testing"

func TestNewShopDomain(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ShopDomain
		wantErr bool
	}{
		{"valid", "demo-store.myshopify.com", "demo-store.myshopify.com", false},
		{"upper case folded", "Demo-Store.MyShopify.com", "demo-store.myshopify.com", false},
		{"surrounding whitespace trimmed", "  demo.myshopify.com ", "demo.myshopify.com", false},
		{"digits allowed", "store42.myshopify.com", "store42.myshopify.com", false},
		{"wrong suffix", "demo-store.example.com", "", true},
		{"suffix only", ".myshopify.com", "", true},
		{"empty", "", "", true},
		{"invalid character", "demo_store.myshopify.com", "", true},
		{"embedded space", "demo store.myshopify.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewShopDomain(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewShopDomain(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NewShopDomain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
