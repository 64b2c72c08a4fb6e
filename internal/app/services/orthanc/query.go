package orthanc

import (
	"context"
	"net/url"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/orthanc_dto"
	"strconv"
	"sync"
)

// Query is a handle on the answers of a C-FIND issued through a modality.
// Each answer is fetched on first access and cached by index.
type Query struct {
	id      string
	client  *Client
	answers sync.Map
}

func NewQuery(id string, client *Client) *Query {
	return &Query{id: id, client: client}
}

func (q *Query) ID() string {
	return q.id
}

// AnswerIndices lists the indices of the available answers.
func (q *Query) AnswerIndices(ctx context.Context) ([]int, error) {
	payload, err := q.client.get(ctx, q.path(constvars.OrthancActionAnswers), nil)
	if err != nil {
		return nil, q.notFound(err)
	}
	values, err := stringsFromPayload(payload)
	if err != nil {
		return nil, err
	}

	indices := make([]int, 0, len(values))
	for _, value := range values {
		index, err := strconv.Atoi(value)
		if err != nil {
			return nil, unexpectedPayload(payload, "array of answer indices")
		}
		indices = append(indices, index)
	}
	return indices, nil
}

// Answer returns the simplified tags of one answer.
func (q *Query) Answer(ctx context.Context, index int) (Information, error) {
	if cachedAnswer, ok := q.answers.Load(index); ok {
		return cachedAnswer.(Information), nil
	}

	query := url.Values{constvars.URLQueryParamSimplify: []string{""}}
	payload, err := q.client.get(ctx, q.path(constvars.OrthancActionAnswers, strconv.Itoa(index), constvars.OrthancActionContent), query)
	if err != nil {
		return nil, q.notFound(err)
	}
	answer, err := objectFromPayload(payload)
	if err != nil {
		return nil, err
	}

	q.answers.Store(index, answer)
	return answer, nil
}

// Answers returns every answer in index order.
func (q *Query) Answers(ctx context.Context) ([]Information, error) {
	indices, err := q.AnswerIndices(ctx)
	if err != nil {
		return nil, err
	}
	answers := make([]Information, 0, len(indices))
	for _, index := range indices {
		answer, err := q.Answer(ctx, index)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

// Retrieve moves one answer into target (an AET, empty means this Orthanc) and waits.
func (q *Query) Retrieve(ctx context.Context, index int, target string) (Information, error) {
	payload, err := q.client.post(ctx, q.path(constvars.OrthancActionAnswers, strconv.Itoa(index), constvars.OrthancActionRetrieve), &orthanc_dto.RetrieveRequest{
		TargetAet:   target,
		Synchronous: true,
	})
	if err != nil {
		return nil, q.notFound(err)
	}
	return optionalObject(payload), nil
}

func (q *Query) RetrieveAsJob(ctx context.Context, index int, target string) (*Job, error) {
	payload, err := q.client.post(ctx, q.path(constvars.OrthancActionAnswers, strconv.Itoa(index), constvars.OrthancActionRetrieve), &orthanc_dto.RetrieveRequest{
		TargetAet:   target,
		Synchronous: false,
	})
	if err != nil {
		return nil, q.notFound(err)
	}
	return q.client.jobFromPayload(payload)
}

// RetrieveAll moves every answer into target and waits.
func (q *Query) RetrieveAll(ctx context.Context, target string) (Information, error) {
	payload, err := q.client.post(ctx, q.path(constvars.OrthancActionRetrieve), &orthanc_dto.RetrieveRequest{
		TargetAet:   target,
		Synchronous: true,
	})
	if err != nil {
		return nil, q.notFound(err)
	}
	return optionalObject(payload), nil
}

func (q *Query) RetrieveAllAsJob(ctx context.Context, target string) (*Job, error) {
	payload, err := q.client.post(ctx, q.path(constvars.OrthancActionRetrieve), &orthanc_dto.RetrieveRequest{
		TargetAet:   target,
		Synchronous: false,
	})
	if err != nil {
		return nil, q.notFound(err)
	}
	return q.client.jobFromPayload(payload)
}

func (q *Query) path(segments ...string) string {
	return buildPath(append([]string{constvars.OrthancPathQueries, q.id}, segments...)...)
}

func (q *Query) notFound(err error) error {
	return notFound(err, constvars.OrthancPathQueries, q.id)
}

// optionalObject tolerates synchronous answers that carry no JSON document.
func optionalObject(payload *orthanc_dto.Payload) Information {
	if object, ok := payload.Object(); ok {
		return Information(object)
	}
	return Information{}
}
