package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Run("Missing Key Falls Back To Default", func(t *testing.T) {
		assert.Equal(t, "http://localhost:8042", GetEnvString("ORTHANC_TEST_MISSING_URL", "http://localhost:8042"))
		assert.Equal(t, 60, GetEnvInt("ORTHANC_TEST_MISSING_TIMEOUT", 60))
	})

	t.Run("Invalid Int Falls Back To Default", func(t *testing.T) {
		t.Setenv("ORTHANC_TEST_TIMEOUT", "sixty")

		assert.Equal(t, 60, GetEnvInt("ORTHANC_TEST_TIMEOUT", 60))
	})

	t.Run("Bool Is Parsed", func(t *testing.T) {
		t.Setenv("ORTHANC_TEST_LOCK", "true")

		assert.True(t, GetEnvBool("ORTHANC_TEST_LOCK", false))
	})

	t.Run("String Slice Is Split And Trimmed", func(t *testing.T) {
		t.Setenv("ORTHANC_TEST_ORIGINS", " http://a.local , ,http://b.local")

		assert.Equal(t, []string{"http://a.local", "http://b.local"}, GetEnvStringSlice("ORTHANC_TEST_ORIGINS", []string{"*"}))
	})
}
