package dto

type KnowledgeCreateRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Keywords string `json:"keywords"`
	Intent   string `json:"intent"`
}

type KnowledgeUpdateRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Keywords *string `json:"keywords"`
	Intent   *string `json:"intent"`
}

type KnowledgeResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Keywords string `json:"keywords"`
	Intent   string `json:"intent"`
}
