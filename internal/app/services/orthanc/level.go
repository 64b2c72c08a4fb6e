package orthanc

import (
	"fmt"
	"orthanc-service/internal/pkg/constvars"
	"strings"
)

// Level is a position in the Patient > Study > Series > Instance hierarchy.
type Level string

const (
	LevelPatient  Level = "Patient"
	LevelStudy    Level = "Study"
	LevelSeries   Level = "Series"
	LevelInstance Level = "Instance"
)

// Collection returns the REST collection holding resources of this level.
func (l Level) Collection() string {
	switch l {
	case LevelPatient:
		return constvars.OrthancPathPatients
	case LevelStudy:
		return constvars.OrthancPathStudies
	case LevelSeries:
		return constvars.OrthancPathSeries
	case LevelInstance:
		return constvars.OrthancPathInstances
	}
	return ""
}

// Child returns the level directly below l. Instances have none.
func (l Level) Child() (Level, bool) {
	switch l {
	case LevelPatient:
		return LevelStudy, true
	case LevelStudy:
		return LevelSeries, true
	case LevelSeries:
		return LevelInstance, true
	}
	return "", false
}

// childrenKey is the main information key listing the child IDs.
func (l Level) childrenKey() string {
	switch l {
	case LevelPatient:
		return constvars.OrthancKeyStudies
	case LevelStudy:
		return constvars.OrthancKeySeries
	case LevelSeries:
		return constvars.OrthancKeyInstances
	}
	return ""
}

func (l Level) String() string {
	return string(l)
}

// ParseLevel accepts either the level name ("Study") or its collection ("studies").
func ParseLevel(value string) (Level, error) {
	switch strings.ToLower(value) {
	case "patient", constvars.OrthancPathPatients:
		return LevelPatient, nil
	case "study", constvars.OrthancPathStudies:
		return LevelStudy, nil
	case constvars.OrthancPathSeries:
		return LevelSeries, nil
	case "instance", constvars.OrthancPathInstances:
		return LevelInstance, nil
	}
	return "", fmt.Errorf(constvars.ErrDevUnsupportedLevel, value)
}
