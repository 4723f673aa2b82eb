package types

// QueryRequest is the body of POST /ask-paper. The wire field is "query";
// clients must not send the legacy "ticket_text" form.
type QueryRequest struct {
	Query string `json:"query" validate:"required"`
}

// QueryResponse is the structured answer returned by the service and, by
// contract, by the LLM itself.
type QueryResponse struct {
	Answer     string   `json:"answer"`
	References []string `json:"references"`
}

// Chunk is one retrievable slice of a paper.
type Chunk struct {
	Text      string `json:"text"`
	Reference string `json:"reference"`
}
