package utils

import (
	"orthanc-service/internal/pkg/constvars"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// Orthanc identifiers are SHA-1 based and rendered as dash separated hex groups,
// job and query IDs are UUIDs. Both fit this alphabet.
var orthancIDPattern = regexp.MustCompile(`^[0-9a-fA-F-]+$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("dicom_level", validateDicomLevel)
	validate.RegisterValidation("job_action", validateJobAction)
	validate.RegisterValidation("orthanc_id", validateOrthancID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}

func validateDicomLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constvars.OrthancPathPatients, constvars.OrthancPathStudies, constvars.OrthancPathSeries, constvars.OrthancPathInstances:
		return true
	}
	return false
}

func validateJobAction(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constvars.OrthancActionCancel, constvars.OrthancActionPause, constvars.OrthancActionResume, constvars.OrthancActionResubmit:
		return true
	}
	return false
}

func validateOrthancID(fl validator.FieldLevel) bool {
	return orthancIDPattern.MatchString(fl.Field().String())
}
