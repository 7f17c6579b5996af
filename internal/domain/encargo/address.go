package encargo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/encargos/storefront/internal/domain/geo"
	"github.com/encargos/storefront/internal/domain/shared"
)

// Country tags the ShippingAddress variant
type Country string

const (
	CountryCuba Country = "CU"
	CountryUS   Country = "US"
)

// CubaAddress is the CU variant of ShippingAddress.
// AreaType is derived by Normalize and never taken from the client.
type CubaAddress struct {
	Province     string       `json:"province" validate:"required"`
	Municipality string       `json:"municipality" validate:"required"`
	Address      string       `json:"address" validate:"required,max=300"`
	NationalID   string       `json:"national_id" validate:"required,len=11,numeric"`
	AreaType     geo.AreaType `json:"area_type"`
}

// USAddress is the US variant of ShippingAddress
type USAddress struct {
	Line1 string `json:"line1" validate:"required,max=200"`
	Line2 string `json:"line2,omitempty" validate:"max=200"`
	City  string `json:"city" validate:"required,max=100"`
	State string `json:"state" validate:"required,len=2,alpha"`
	Zip   string `json:"zip" validate:"required,uszip"`
}

// ShippingAddress is a tagged union on Country: exactly one of CU or US is set
type ShippingAddress struct {
	Country Country      `json:"country"`
	CU      *CubaAddress `json:"cu,omitempty"`
	US      *USAddress   `json:"us,omitempty"`
}

var (
	usZipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	validate     = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("uszip", func(fl validator.FieldLevel) bool {
		return usZipPattern.MatchString(fl.Field().String())
	})
	return v
}

// Normalize validates the union and returns a copy with trimmed fields,
// canonical province spelling and the derived area type.
func (a ShippingAddress) Normalize() (ShippingAddress, error) {
	switch Country(strings.ToUpper(string(a.Country))) {
	case CountryCuba:
		if a.CU == nil || a.US != nil {
			return ShippingAddress{}, shared.InvalidInput("CU address requires only the cu fields")
		}
		cu := *a.CU
		cu.Province = strings.TrimSpace(cu.Province)
		cu.Municipality = strings.TrimSpace(cu.Municipality)
		cu.Address = strings.TrimSpace(cu.Address)
		cu.NationalID = strings.TrimSpace(cu.NationalID)
		if err := validate.Struct(cu); err != nil {
			return ShippingAddress{}, validationError(err)
		}
		province, ok := geo.CanonicalProvince(cu.Province)
		if !ok {
			return ShippingAddress{}, shared.InvalidInput(fmt.Sprintf("unknown province %q", cu.Province))
		}
		if !geo.IsValidMunicipality(province, cu.Municipality) {
			return ShippingAddress{}, shared.InvalidInput(fmt.Sprintf("municipality %q is not in %s", cu.Municipality, province))
		}
		cu.Province = province
		cu.AreaType = geo.Classify(cu.Province, cu.Municipality)
		return ShippingAddress{Country: CountryCuba, CU: &cu}, nil

	case CountryUS:
		if a.US == nil || a.CU != nil {
			return ShippingAddress{}, shared.InvalidInput("US address requires only the us fields")
		}
		us := *a.US
		us.Line1 = strings.TrimSpace(us.Line1)
		us.Line2 = strings.TrimSpace(us.Line2)
		us.City = strings.TrimSpace(us.City)
		us.State = strings.ToUpper(strings.TrimSpace(us.State))
		us.Zip = strings.TrimSpace(us.Zip)
		if err := validate.Struct(us); err != nil {
			return ShippingAddress{}, validationError(err)
		}
		return ShippingAddress{Country: CountryUS, US: &us}, nil

	default:
		return ShippingAddress{}, shared.InvalidInput(fmt.Sprintf("unsupported country %q", a.Country))
	}
}

// AreaType returns the derived tier for CU addresses and "" otherwise
func (a ShippingAddress) AreaType() geo.AreaType {
	if a.Country == CountryCuba && a.CU != nil {
		return a.CU.AreaType
	}
	return ""
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return shared.InvalidInput(fmt.Sprintf("field %s failed %s validation", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return shared.InvalidInput(err.Error())
}
