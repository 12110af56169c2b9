package risk

import "github.com/vladimiradmaev/diatrack/internal/domain"

// Overrides are the client supplied values that take precedence over the
// stored reading when building a risk query.
type Overrides struct {
	LatestBloodSugar domain.OptionalNumber `json:"latest_blood_sugar"`
	CarbIntake       domain.OptionalNumber `json:"carb_intake"`
	Activity         domain.OptionalNumber `json:"activity"`

	// DecodeErr is set when the request body could not be read as
	// overrides. It is reported only once the user is known to have a
	// stored reading.
	DecodeErr error `json:"-"`
}

// InvalidOverrides carries a body decode failure into resolution.
func InvalidOverrides(err error) Overrides {
	return Overrides{DecodeErr: err}
}
