package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "Hyundai", "Hyundai"},
		{"all lower", "hyundai", "Hyundai"},
		{"all upper", "HYUNDAI", "Hyundai"},
		{"multi word", "maruti suzuki", "Maruti suzuki"},
		{"leading and trailing space", "  swift  ", "Swift"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestCar_Normalize(t *testing.T) {
	car := &Car{Make: "  maruti suzuki ", Model: "SWIFT"}
	car.Normalize()
	assert.Equal(t, "Maruti suzuki", car.Make)
	assert.Equal(t, "Swift", car.Model)
}

func TestCar_DisplayTitle(t *testing.T) {
	car := &Car{Year: 2021, Make: "Hyundai", Model: "I20"}
	assert.Equal(t, "2021 Hyundai I20", car.DisplayTitle())
}

func TestCarImages_ValueAndScan(t *testing.T) {
	images := CarImages{{URL: "https://example.com/a.jpg", Alt: "front"}}

	raw, err := images.Value()
	assert.NoError(t, err)

	var decoded CarImages
	assert.NoError(t, decoded.Scan([]byte(raw.(string))))
	assert.Equal(t, images, decoded)
}

func TestCarImages_ValueNil(t *testing.T) {
	var images CarImages
	raw, err := images.Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestStringList_ValueAndScan(t *testing.T) {
	features := StringList{"ABS", "Airbags"}

	raw, err := features.Value()
	assert.NoError(t, err)

	var decoded StringList
	assert.NoError(t, decoded.Scan([]byte(raw.(string))))
	assert.Equal(t, features, decoded)
}
