package orthanc_dto

type AnonymizeRequest struct {
	Asynchronous    bool              `json:"Asynchronous"`
	Remove          []string          `json:"Remove"`
	Replace         map[string]string `json:"Replace"`
	Keep            []string          `json:"Keep"`
	Force           bool              `json:"Force"`
	KeepPrivateTags bool              `json:"KeepPrivateTags"`
	KeepSource      bool              `json:"KeepSource"`
	Priority        int               `json:"Priority"`
	Permissive      bool              `json:"Permissive"`
	DicomVersion    string            `json:"DicomVersion,omitempty"`
}

type ModifyRequest struct {
	Asynchronous      bool              `json:"Asynchronous"`
	Replace           map[string]string `json:"Replace"`
	Remove            []string          `json:"Remove"`
	Keep              []string          `json:"Keep"`
	Force             bool              `json:"Force"`
	RemovePrivateTags bool              `json:"RemovePrivateTags"`
	KeepSource        bool              `json:"KeepSource"`
	Priority          int               `json:"Priority"`
	Permissive        bool              `json:"Permissive"`
	Transcode         string            `json:"Transcode,omitempty"`
}

type QueryRequest struct {
	Level string            `json:"Level"`
	Query map[string]string `json:"Query"`
}

type RetrieveRequest struct {
	TargetAet   string `json:"TargetAet,omitempty"`
	Synchronous bool   `json:"Synchronous"`
}

type StoreRequest struct {
	Resources   []string `json:"Resources"`
	Synchronous bool     `json:"Synchronous"`
}

type FindRequest struct {
	Level            string            `json:"Level"`
	Query            map[string]string `json:"Query"`
	Expand           bool              `json:"Expand"`
	CaseSensitive    bool              `json:"CaseSensitive,omitempty"`
	Limit            int               `json:"Limit,omitempty"`
	Since            int               `json:"Since,omitempty"`
	Labels           []string          `json:"Labels,omitempty"`
	LabelsConstraint string            `json:"LabelsConstraint,omitempty"`
}
