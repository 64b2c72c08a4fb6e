package responses

type Query struct {
	ID       string `json:"id"`
	Modality string `json:"modality"`
	Level    string `json:"level"`
	Answers  int    `json:"answers"`
}

type QueryAnswer struct {
	Index  int            `json:"index"`
	Fields map[string]any `json:"fields"`
}
