package encargo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encargos/storefront/internal/domain/geo"
	"github.com/encargos/storefront/internal/domain/shared"
)

func cubaAddress(province, municipality string) ShippingAddress {
	return ShippingAddress{
		Country: CountryCuba,
		CU: &CubaAddress{
			Province:     province,
			Municipality: municipality,
			Address:      "Calle 23 #456",
			NationalID:   "85010112345",
		},
	}
}

func TestShippingAddress_NormalizeCuba(t *testing.T) {
	tests := []struct {
		name         string
		province     string
		municipality string
		wantProvince string
		wantArea     geo.AreaType
	}{
		{"habana urban", "La Habana", "Playa", "La Habana", geo.AreaCity},
		{"habana alias", "Ciudad de La Habana", "Cerro", "La Habana", geo.AreaCity},
		{"habana outskirts", "La Habana", "Guanabacoa", "La Habana", geo.AreaMunicipio},
		{"provincial capital", "Granma", "Bayamo", "Granma", geo.AreaCity},
		{"accent-insensitive province", "camaguey", "Camagüey", "Camagüey", geo.AreaCity},
		{"provincial outskirts", "Granma", "Yara", "Granma", geo.AreaMunicipio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cubaAddress(tt.province, tt.municipality).Normalize()
			require.NoError(t, err)
			require.NotNil(t, got.CU)
			assert.Equal(t, tt.wantProvince, got.CU.Province)
			assert.Equal(t, tt.wantArea, got.AreaType())
		})
	}
}

func TestShippingAddress_ClientAreaTypeOverwritten(t *testing.T) {
	addr := cubaAddress("Granma", "Yara")
	addr.CU.AreaType = geo.AreaCity

	got, err := addr.Normalize()
	require.NoError(t, err)
	assert.Equal(t, geo.AreaMunicipio, got.AreaType())
	assert.Equal(t, geo.AreaCity, addr.CU.AreaType, "input must not be mutated")
}

func TestShippingAddress_NormalizeCubaErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ShippingAddress)
	}{
		{"missing cu fields", func(a *ShippingAddress) { a.CU = nil }},
		{"both variants", func(a *ShippingAddress) { a.US = &USAddress{} }},
		{"short national id", func(a *ShippingAddress) { a.CU.NationalID = "1234" }},
		{"non numeric national id", func(a *ShippingAddress) { a.CU.NationalID = "8501011234A" }},
		{"unknown province", func(a *ShippingAddress) { a.CU.Province = "Atlantis" }},
		{"municipality outside province", func(a *ShippingAddress) { a.CU.Municipality = "Bayamo" }},
		{"missing address", func(a *ShippingAddress) { a.CU.Address = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := cubaAddress("La Habana", "Playa")
			tt.mutate(&addr)
			_, err := addr.Normalize()
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestShippingAddress_NormalizeUS(t *testing.T) {
	addr := ShippingAddress{
		Country: "us",
		US: &USAddress{
			Line1: " 100 Main St ",
			City:  "Miami",
			State: "fl",
			Zip:   "33101-1234",
		},
	}
	got, err := addr.Normalize()
	require.NoError(t, err)
	assert.Equal(t, CountryUS, got.Country)
	assert.Equal(t, "100 Main St", got.US.Line1)
	assert.Equal(t, "FL", got.US.State)
	assert.Equal(t, geo.AreaType(""), got.AreaType())
}

func TestShippingAddress_NormalizeUSErrors(t *testing.T) {
	base := func() ShippingAddress {
		return ShippingAddress{Country: CountryUS, US: &USAddress{Line1: "1 A St", City: "Miami", State: "FL", Zip: "33101"}}
	}
	tests := []struct {
		name   string
		mutate func(*ShippingAddress)
	}{
		{"bad zip", func(a *ShippingAddress) { a.US.Zip = "3310" }},
		{"bad state", func(a *ShippingAddress) { a.US.State = "Florida" }},
		{"missing city", func(a *ShippingAddress) { a.US.City = "" }},
		{"missing us fields", func(a *ShippingAddress) { a.US = nil }},
		{"unsupported country", func(a *ShippingAddress) { a.Country = "MX" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := base()
			tt.mutate(&addr)
			_, err := addr.Normalize()
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}
