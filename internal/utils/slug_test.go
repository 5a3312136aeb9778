// internal/utils/slug_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Áo thun nam", "ao-thun-nam"},
		{"Quần jean nữ", "quan-jean-nu"},
		{"Đồng hồ đeo tay", "dong-ho-deo-tay"},
		{"Giày thể thao", "giay-the-thao"},
		{"  Trimmed   name  ", "trimmed-name"},
		{"UPPER Case", "upper-case"},
		{"rock & roll!!", "rock-roll"},
		{"iPhone 15 Pro Max", "iphone-15-pro-max"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.name), tt.name)
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	assert.Equal(t, Slugify("Áo sơ mi trắng"), Slugify("Áo sơ mi trắng"))
}
