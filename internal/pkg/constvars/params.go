package constvars

const (
	URLParamLevel       = "level"
	URLParamResourceID  = "resource_id"
	URLParamLabel       = "label"
	URLParamJobID       = "job_id"
	URLParamJobAction   = "action"
	URLParamModality    = "modality"
	URLParamQueryID     = "query_id"
	URLParamAnswerIndex = "answer_index"
)

const (
	URLQueryParamSimplify = "simplify"
	URLQueryParamExpand   = "expand"
)
