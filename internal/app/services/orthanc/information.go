package orthanc

import (
	"fmt"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"strconv"
)

// Information is a decoded Orthanc JSON document, such as the main information
// of a resource or the info of a job.
type Information map[string]any

func (i Information) MainDicomTags() map[string]any {
	return i.Map(constvars.OrthancKeyMainDicomTags)
}

func (i Information) PatientMainDicomTags() map[string]any {
	return i.Map(constvars.OrthancKeyPatientMainDicomTags)
}

func (i Information) Map(key string) map[string]any {
	value, _ := i[key].(map[string]any)
	return value
}

func (i Information) String(key string) (string, bool) {
	value, ok := i[key].(string)
	return value, ok
}

func (i Information) Bool(key string) (bool, bool) {
	value, ok := i[key].(bool)
	return value, ok
}

// Int reads a JSON number. Decoded numbers arrive as float64.
func (i Information) Int(key string) (int, bool) {
	switch value := i[key].(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	case int64:
		return int(value), true
	}
	return 0, false
}

// StringList reads a JSON array of strings, skipping non-string entries.
func (i Information) StringList(key string) []string {
	values, _ := i[key].([]any)
	result := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

// tagValue reads a main DICOM tag. An absent tag is an error, an empty string is not.
func tagValue(tags map[string]any, tag, resourceID string) (string, error) {
	value, ok := tags[tag]
	if !ok {
		return "", &exceptions.TagDoesNotExistError{Tag: tag, ResourceID: resourceID}
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(v), nil
	}
}

func tagInt(tags map[string]any, tag, resourceID string) (int, error) {
	value, err := tagValue(tags, tag, resourceID)
	if err != nil {
		return 0, err
	}
	number, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf(constvars.ErrDevInvalidFormat, tag+" "+strconv.Quote(value))
	}
	return number, nil
}

func requiredString(info Information, key, resourceID string) (string, error) {
	value, ok := info.String(key)
	if !ok {
		return "", &exceptions.TagDoesNotExistError{Tag: key, ResourceID: resourceID}
	}
	return value, nil
}

func requiredInt(info Information, key, resourceID string) (int, error) {
	value, ok := info.Int(key)
	if !ok {
		return 0, &exceptions.TagDoesNotExistError{Tag: key, ResourceID: resourceID}
	}
	return value, nil
}
