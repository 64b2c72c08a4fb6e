package orthanc

import (
	"context"
	"net/http"
	"orthanc-service/internal/pkg/exceptions"
	"orthanc-service/internal/pkg/orthanc_dto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesInformation(id string, instances ...string) map[string]any {
	return map[string]any{
		"ID":                        id,
		"ParentStudy":               "study-1",
		"Instances":                 instances,
		"ExpectedNumberOfInstances": nil,
		"MainDicomTags": map[string]any{
			"Modality":     "CT",
			"SeriesNumber": "3",
		},
	}
}

func TestStudy_Series(t *testing.T) {
	ctx := context.Background()

	t.Run("Lock Mode Keeps Child Identity", func(t *testing.T) {
		requester := newFakeRequester()
		requester.on(http.MethodGet, "/studies/study-1", jsonResponse(studyInformation("ct", "series-1", "series-2")))
		requester.on(http.MethodGet, "/series/series-1", jsonResponse(seriesInformation("series-1", "instance-1")))
		study := NewStudy("study-1", NewClient(requester), true)

		first, err := study.Series(ctx)
		require.NoError(t, err)
		second, err := study.Series(ctx)
		require.NoError(t, err)

		require.Len(t, first, 2)
		for i := range first {
			assert.Same(t, first[i], second[i])
			assert.True(t, first[i].Lock())
			assert.Equal(t, LevelSeries, first[i].Level())
		}
		assert.Equal(t, "series-1", first[0].ID())
		assert.Equal(t, "series-2", first[1].ID())

		_, err = first[0].MainInformation(ctx)
		require.NoError(t, err)
		_, err = second[0].MainInformation(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, requester.callCount(http.MethodGet, "/series/series-1"))
		assert.Equal(t, 1, requester.callCount(http.MethodGet, "/studies/study-1"))
	})

	t.Run("Without Lock Children Are Rebuilt", func(t *testing.T) {
		requester := newFakeRequester()
		requester.on(http.MethodGet, "/studies/study-1",
			jsonResponse(studyInformation("ct", "series-1")),
			jsonResponse(studyInformation("ct", "series-1", "series-2")),
		)
		study := NewStudy("study-1", NewClient(requester), false)

		first, err := study.Series(ctx)
		require.NoError(t, err)
		second, err := study.Series(ctx)
		require.NoError(t, err)

		require.Len(t, first, 1)
		require.Len(t, second, 2)
		assert.NotSame(t, first[0], second[0])
		assert.True(t, SameResource(first[0], second[0]))
		assert.False(t, second[0].Lock())
	})

	t.Run("Fetched Empty List Is Cached", func(t *testing.T) {
		requester := newFakeRequester()
		requester.on(http.MethodGet, "/studies/study-1", jsonResponse(studyInformation("ct")))
		study := NewStudy("study-1", NewClient(requester), true)

		series, err := study.Series(ctx)
		require.NoError(t, err)
		assert.Empty(t, series)
		assert.True(t, study.hasEmptyCache())
	})
}

func TestStudy_RemoveEmptySeries(t *testing.T) {
	ctx := context.Background()

	t.Run("Drops Series With Empty Cached Instances Without Network Calls", func(t *testing.T) {
		requester := newFakeRequester()
		requester.on(http.MethodGet, "/studies/study-1", jsonResponse(studyInformation("ct", "series-1", "series-2")))
		requester.on(http.MethodGet, "/series/series-1", jsonResponse(seriesInformation("series-1")))
		requester.on(http.MethodGet, "/series/series-2", jsonResponse(seriesInformation("series-2")))
		study := NewStudy("study-1", NewClient(requester), true)

		series, err := study.Series(ctx)
		require.NoError(t, err)
		for _, child := range series {
			instances, err := child.Instances(ctx)
			require.NoError(t, err)
			require.Empty(t, instances)
		}
		callsBefore := requester.totalCalls()

		study.RemoveEmptySeries()

		remaining, err := study.Series(ctx)
		require.NoError(t, err)
		assert.Empty(t, remaining)
		assert.Equal(t, callsBefore, requester.totalCalls())
	})

	t.Run("Keeps Series Whose Instances Were Never Loaded", func(t *testing.T) {
		requester := newFakeRequester()
		requester.on(http.MethodGet, "/studies/study-1", jsonResponse(studyInformation("ct", "series-1", "series-2")))
		requester.on(http.MethodGet, "/series/series-1", jsonResponse(seriesInformation("series-1")))
		study := NewStudy("study-1", NewClient(requester), true)

		series, err := study.Series(ctx)
		require.NoError(t, err)
		_, err = series[0].Instances(ctx)
		require.NoError(t, err)
		callsBefore := requester.totalCalls()

		study.RemoveEmptySeries()

		remaining, err := study.Series(ctx)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, "series-2", remaining[0].ID())
		assert.Equal(t, callsBefore, requester.totalCalls())
	})

	t.Run("No Op When Children Were Never Materialized", func(t *testing.T) {
		requester := newFakeRequester()
		study := NewStudy("study-1", NewClient(requester), true)

		study.RemoveEmptySeries()

		assert.Equal(t, 0, requester.totalCalls())
		_, ok := study.series.Load()
		assert.False(t, ok)
	})
}

func TestPatient_RemoveEmptyStudies(t *testing.T) {
	ctx := context.Background()
	requester := newFakeRequester()
	requester.on(http.MethodGet, "/patients/patient-1", jsonResponse(map[string]any{"Studies": []string{"study-1", "study-2"}}))
	requester.on(http.MethodGet, "/studies/study-1", jsonResponse(studyInformation("ct", "series-1")))
	requester.on(http.MethodGet, "/studies/study-2", jsonResponse(studyInformation("mr")))
	requester.on(http.MethodGet, "/series/series-1", jsonResponse(seriesInformation("series-1")))
	patient := NewPatient("patient-1", NewClient(requester), true)

	studies, err := patient.Studies(ctx)
	require.NoError(t, err)
	series, err := studies[0].Series(ctx)
	require.NoError(t, err)
	_, err = series[0].Instances(ctx)
	require.NoError(t, err)
	_, err = studies[1].Series(ctx)
	require.NoError(t, err)
	callsBefore := requester.totalCalls()

	patient.RemoveEmptyStudies()

	remaining, err := patient.Studies(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Equal(t, callsBefore, requester.totalCalls())
}

func TestStudy_Anonymize(t *testing.T) {
	ctx := context.Background()

	t.Run("Synchronous Returns The New Study", func(t *testing.T) {
		requester := newFakeRequester()
		requester.on(http.MethodPost, "/studies/study-1/anonymize", jsonResponse(map[string]any{"ID": "study-anon", "Path": "/studies/study-anon"}))
		study := NewStudy("study-1", NewClient(requester), true)

		anonymized, err := study.Anonymize(ctx, &AnonymizeOptions{Replace: map[string]string{"StudyDescription": "anon"}})

		require.NoError(t, err)
		assert.Equal(t, "study-anon", anonymized.ID())
		assert.Equal(t, LevelStudy, anonymized.Level())
		body := requester.lastCall(http.MethodPost, "/studies/study-1/anonymize").Body.(*orthanc_dto.AnonymizeRequest)
		assert.False(t, body.Asynchronous)
		assert.Equal(t, "anon", body.Replace["StudyDescription"])
		assert.NotNil(t, body.Remove)
		assert.NotNil(t, body.Keep)
	})

	t.Run("Read Timeout Points To The Job Variant", func(t *testing.T) {
		requester := newFakeRequester()
		requester.on(http.MethodPost, "/studies/study-1/anonymize", errorResponse(&exceptions.TransportError{
			Method: http.MethodPost,
			Path:   "/studies/study-1/anonymize",
			Err:    timeoutError{},
		}))
		study := NewStudy("study-1", NewClient(requester), true)

		_, err := study.Anonymize(ctx, nil)

		var readTimeoutErr *exceptions.ReadTimeoutError
		require.ErrorAs(t, err, &readTimeoutErr)
		assert.Contains(t, err.Error(), "AnonymizeAsJob")
		assert.Contains(t, err.Error(), "Study anonymization")
	})

	t.Run("Asynchronous Returns A Job With Default Options", func(t *testing.T) {
		requester := newFakeRequester()
		requester.on(http.MethodPost, "/studies/study-1/anonymize", jsonResponse(map[string]any{"ID": "job-1", "Path": "/jobs/job-1"}))
		study := NewStudy("study-1", NewClient(requester), true)

		job, err := study.AnonymizeAsJob(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, "job-1", job.ID())
		body := requester.lastCall(http.MethodPost, "/studies/study-1/anonymize").Body.(*orthanc_dto.AnonymizeRequest)
		assert.True(t, body.Asynchronous)
		assert.True(t, body.KeepSource)
		assert.Equal(t, 0, body.Priority)
	})

	t.Run("Modify Timeout Points To ModifyAsJob", func(t *testing.T) {
		requester := newFakeRequester()
		requester.on(http.MethodPost, "/series/series-1/modify", errorResponse(&exceptions.TransportError{Err: timeoutError{}}))
		series := NewSeries("series-1", NewClient(requester), false)

		_, err := series.Modify(ctx, DefaultModifyOptions())

		assert.ErrorContains(t, err, "ModifyAsJob")
	})

	t.Run("Partial Options Keep The Source", func(t *testing.T) {
		requester := newFakeRequester()
		requester.on(http.MethodPost, "/studies/study-1/anonymize", jsonResponse(map[string]any{"ID": "job-1", "Path": "/jobs/job-1"}))
		requester.on(http.MethodPost, "/series/series-1/modify", jsonResponse(map[string]any{"ID": "job-2", "Path": "/jobs/job-2"}))
		client := NewClient(requester)
		study := NewStudy("study-1", client, false)
		series := NewSeries("series-1", client, false)

		for _, options := range []*AnonymizeOptions{{}, {Force: true}, {KeepPrivateTags: true, Priority: 3}} {
			_, err := study.AnonymizeAsJob(ctx, options)
			require.NoError(t, err)
			body := requester.lastCall(http.MethodPost, "/studies/study-1/anonymize").Body.(*orthanc_dto.AnonymizeRequest)
			assert.True(t, body.KeepSource)
		}

		_, err := series.ModifyAsJob(ctx, &ModifyOptions{Replace: map[string]string{"SeriesDescription": "x"}})
		require.NoError(t, err)
		modifyBody := requester.lastCall(http.MethodPost, "/series/series-1/modify").Body.(*orthanc_dto.ModifyRequest)
		assert.True(t, modifyBody.KeepSource)
	})

	t.Run("Remove Source Is Explicit", func(t *testing.T) {
		requester := newFakeRequester()
		requester.on(http.MethodPost, "/studies/study-1/anonymize", jsonResponse(map[string]any{"ID": "job-1", "Path": "/jobs/job-1"}))
		study := NewStudy("study-1", NewClient(requester), false)

		_, err := study.AnonymizeAsJob(ctx, &AnonymizeOptions{RemoveSource: true})

		require.NoError(t, err)
		body := requester.lastCall(http.MethodPost, "/studies/study-1/anonymize").Body.(*orthanc_dto.AnonymizeRequest)
		assert.False(t, body.KeepSource)
	})
}

func TestInstance_MutationReadTimeout(t *testing.T) {
	ctx := context.Background()
	requester := newFakeRequester()
	requester.on(http.MethodPost, "/instances/instance-1/anonymize", errorResponse(&exceptions.TransportError{Err: timeoutError{}}))
	requester.on(http.MethodPost, "/instances/instance-1/modify", errorResponse(&exceptions.TransportError{Err: timeoutError{}}))
	instance := NewInstance("instance-1", NewClient(requester), false)

	_, err := instance.Anonymize(ctx, nil)

	var readTimeoutErr *exceptions.ReadTimeoutError
	require.ErrorAs(t, err, &readTimeoutErr)
	assert.Contains(t, err.Error(), "Instance anonymization")
	assert.Contains(t, err.Error(), "client timeout")
	assert.NotContains(t, err.Error(), "AsJob")

	_, err = instance.Modify(ctx, nil)

	require.ErrorAs(t, err, &readTimeoutErr)
	assert.NotContains(t, err.Error(), "ModifyAsJob")
}

func TestContainer_GetZip(t *testing.T) {
	requester := newFakeRequester()
	requester.on(http.MethodGet, "/patients/patient-1/archive", binaryResponse([]byte("PK\x03\x04")))
	patient := NewPatient("patient-1", NewClient(requester), true)

	first, err := patient.GetZip(context.Background())
	require.NoError(t, err)
	_, err = patient.GetZip(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []byte("PK\x03\x04"), first)
	assert.Equal(t, 2, requester.callCount(http.MethodGet, "/patients/patient-1/archive"))
}

func TestSeries_OrderedInstances(t *testing.T) {
	ctx := context.Background()
	requester := newFakeRequester()
	requester.on(http.MethodGet, "/series/series-1", jsonResponse(seriesInformation("series-1", "instance-1", "instance-2")))
	requester.on(http.MethodGet, "/series/series-1/ordered-slices", jsonResponse(map[string]any{
		"Type":        "Volume",
		"SlicesShort": [][]any{{"instance-2", 0, 1}, {"instance-1", 0, 1}},
	}))
	series := NewSeries("series-1", NewClient(requester), true)

	instances, err := series.Instances(ctx)
	require.NoError(t, err)
	ordered, err := series.OrderedInstances(ctx)
	require.NoError(t, err)

	require.Len(t, ordered, 2)
	assert.Same(t, instances[1], ordered[0])
	assert.Same(t, instances[0], ordered[1])

	again, err := series.Instances(ctx)
	require.NoError(t, err)
	assert.Equal(t, "instance-1", again[0].ID())

	number, err := series.SeriesNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, number)

	_, err = series.ExpectedNumberOfInstances(ctx)
	var tagErr *exceptions.TagDoesNotExistError
	assert.ErrorAs(t, err, &tagErr)
}

func TestPatient_Protected(t *testing.T) {
	ctx := context.Background()
	requester := newFakeRequester()
	requester.on(http.MethodGet, "/patients/patient-1/protected", textResponse("1"))
	requester.on(http.MethodPut, "/patients/patient-1/protected", textResponse(""))
	patient := NewPatient("patient-1", NewClient(requester), false)

	protected, err := patient.Protected(ctx)
	require.NoError(t, err)
	assert.True(t, protected)

	require.NoError(t, patient.SetProtected(ctx, false))
	assert.Equal(t, "0", requester.lastCall(http.MethodPut, "/patients/patient-1/protected").Body)
}

func TestInstance_Content(t *testing.T) {
	ctx := context.Background()
	requester := newFakeRequester()
	requester.on(http.MethodGet, "/instances/instance-1", jsonResponse(map[string]any{
		"FileSize":      1024,
		"IndexInSeries": 2,
		"ParentSeries":  "series-1",
		"MainDicomTags": map[string]any{"SOPInstanceUID": "1.2.3", "InstanceNumber": "7"},
	}))
	requester.on(http.MethodGet, "/instances/instance-1/file", binaryResponse([]byte("DICM")))
	requester.on(http.MethodGet, "/instances/instance-1/content/0008-1140/0/0008-1150", textResponse("1.2.840"))
	requester.on(http.MethodPost, "/instances/instance-1/anonymize", binaryResponse([]byte("ANON")))
	instance := NewInstance("instance-1", NewClient(requester), true)

	size, err := instance.FileSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1024, size)

	number, err := instance.InstanceNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, number)

	parent, err := instance.ParentSeries(ctx)
	require.NoError(t, err)
	assert.Equal(t, "series-1", parent.ID())

	file, err := instance.FileContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("DICM"), file)

	content, err := instance.ContentByTag(ctx, "0008-1140", "0", "0008-1150")
	require.NoError(t, err)
	assert.Equal(t, []byte("1.2.840"), content)

	anonymized, err := instance.Anonymize(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("ANON"), anonymized)
}
