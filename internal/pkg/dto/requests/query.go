package requests

// ModalityQuery is the body of POST /modalities/{modality}/query.
type ModalityQuery struct {
	Level string            `json:"level" validate:"required,dicom_level"`
	Query map[string]string `json:"query" validate:"required"`
}

// RetrieveAnswers is the body of POST /queries/{query_id}/retrieve. A nil
// AnswerIndex retrieves every answer.
type RetrieveAnswers struct {
	AnswerIndex *int   `json:"answer_index" validate:"omitempty,gte=0"`
	TargetAet   string `json:"target_aet" validate:"omitempty,max=16"`
}

type StoreToModality struct {
	Resources []string `json:"resources" validate:"required,min=1,dive,orthanc_id"`
}
