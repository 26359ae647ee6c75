package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCategory_Label(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     string
	}{
		{"Raw material", CategoryRawMaterial, "Сырье"},
		{"Finished good", CategoryFinishedGood, "Готовая продукция"},
		{"Unknown falls back to code", Category("other"), "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.category.Label(); got != tt.want {
				t.Errorf("Category.Label() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInventoryItem_AvailableQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		reserved string
		want     string
	}{
		{"No reservations", "100", "0", "100"},
		{"Some reservations", "100", "25.5", "74.5"},
		{"Fully reserved", "100", "100", "0"},
		{"Over-reserved floors at zero", "20", "80", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &InventoryItem{Quantity: dec(tt.quantity)}
			if got := item.AvailableQuantity(dec(tt.reserved)); !got.Equal(dec(tt.want)) {
				t.Errorf("AvailableQuantity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInventoryItem_IsLow(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		minLevel string
		reserved string
		want     bool
	}{
		{"Above minimum", "100", "50", "0", false},
		{"Exactly at minimum", "50", "50", "0", true},
		{"Reservation pushes below minimum", "100", "50", "80", true},
		{"Zero minimum with empty stock", "0", "0", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &InventoryItem{Quantity: dec(tt.quantity), MinLevel: dec(tt.minLevel)}
			if got := item.IsLow(dec(tt.reserved)); got != tt.want {
				t.Errorf("IsLow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"0.1", "0.1"},
		{"-3", "0"},
		{"-0.001", "0"},
		{"12.344", "12.34"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ClampQuantity(dec(tt.in)); !got.Equal(dec(tt.want)) {
				t.Errorf("ClampQuantity(%s) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatSigned(t *testing.T) {
	if got := FormatSigned(dec("10")); got != "+10" {
		t.Errorf("FormatSigned(10) = %q, want +10", got)
	}
	if got := FormatSigned(dec("-2.5")); got != "-2.5" {
		t.Errorf("FormatSigned(-2.5) = %q, want -2.5", got)
	}
	if got := FormatSigned(decimal.Zero); got != "0" {
		t.Errorf("FormatSigned(0) = %q, want 0", got)
	}
}

func TestPagination_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		page      Pagination
		total     int
		wantStart int
		wantEnd   int
		wantPages int
	}{
		{"First page", Pagination{Page: 1, PageSize: 10}, 25, 0, 10, 3},
		{"Last partial page", Pagination{Page: 3, PageSize: 10}, 25, 20, 25, 3},
		{"Past the end", Pagination{Page: 9, PageSize: 10}, 25, 25, 25, 3},
		{"Empty list", DefaultPagination(), 0, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.page.Bounds(tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("Bounds() = [%d,%d), want [%d,%d)", start, end, tt.wantStart, tt.wantEnd)
			}
			if got := tt.page.TotalPages(tt.total); got != tt.wantPages {
				t.Errorf("TotalPages() = %d, want %d", got, tt.wantPages)
			}
		})
	}
}
