package validation

import (
	"slices"
	"unicode"

	"go-jobmatch-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	jobTypes = []string{
		domain.JobTypeFullTime, domain.JobTypePartTime, domain.JobTypeContract, domain.JobTypeRemote,
	}
	// Profiles may state Lead, which jobs never carry but the scorer ranks.
	experienceLevels = []string{
		domain.ExperienceEntry, domain.ExperienceMid, domain.ExperienceSenior, "Lead", domain.ExperienceExecutive,
	}
	remotePreferences = []string{
		domain.RemotePreferenceRemote, domain.RemotePreferenceHybrid, domain.RemotePreferenceOnsite, domain.RemotePreferenceFlexible,
	}
)

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("job_type", oneOfList(jobTypes))
	_ = v.RegisterValidation("experience_level", oneOfList(experienceLevels))
	_ = v.RegisterValidation("remote_preference", oneOfList(remotePreferences))
}

func oneOfList(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		return val == "" || slices.Contains(allowed, val)
	}
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		// Supplementary planes are mostly emoji and pictographs
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}
