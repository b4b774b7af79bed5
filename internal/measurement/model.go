// Package measurement stores one tailoring measurement set per user.
// Fields are grouped into the categories the tailors work with; the whole
// set is created, replaced and deleted wholesale.
package measurement

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	UnitInches = "inches"
	UnitCM     = "cm"
)

type Essential struct {
	Neck     float64 `json:"neck" validate:"gte=0"`
	Chest    float64 `json:"chest" validate:"gte=0"`
	Waist    float64 `json:"waist" validate:"gte=0"`
	Hip      float64 `json:"hip" validate:"gte=0"`
	Shoulder float64 `json:"shoulder" validate:"gte=0"`
}

type Formal struct {
	JacketLength float64 `json:"jacket_length" validate:"gte=0"`
	BackWidth    float64 `json:"back_width" validate:"gte=0"`
	Bicep        float64 `json:"bicep" validate:"gte=0"`
	Wrist        float64 `json:"wrist" validate:"gte=0"`
}

type Traditional struct {
	AgbadaLength float64 `json:"agbada_length" validate:"gte=0"`
	KaftanLength float64 `json:"kaftan_length" validate:"gte=0"`
	CapSize      float64 `json:"cap_size" validate:"gte=0"`
}

type Sleeves struct {
	ShortSleeve float64 `json:"short_sleeve" validate:"gte=0"`
	LongSleeve  float64 `json:"long_sleeve" validate:"gte=0"`
	Cuff        float64 `json:"cuff" validate:"gte=0"`
}

type Trousers struct {
	Length float64 `json:"length" validate:"gte=0"`
	Thigh  float64 `json:"thigh" validate:"gte=0"`
	Knee   float64 `json:"knee" validate:"gte=0"`
	Ankle  float64 `json:"ankle" validate:"gte=0"`
	Inseam float64 `json:"inseam" validate:"gte=0"`
}

// Set is a user's full measurement profile.
// swagger:model MeasurementSet
type Set struct {
	UserID      string      `json:"user_id"`
	Unit        string      `json:"unit" validate:"required,oneof=inches cm"`
	Essential   Essential   `json:"essential"`
	Formal      Formal      `json:"formal"`
	Traditional Traditional `json:"traditional"`
	Sleeves     Sleeves     `json:"sleeves"`
	Trousers    Trousers    `json:"trousers"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

var validate = validator.New()

func (s *Set) Validate() error {
	return validate.Struct(s)
}
