package httpapi

// QueryRequest is the body of POST /api/v1/query. ConversationID is accepted
// for log correlation only; queries are processed independently.
type QueryRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// QueryResponse is the answer payload.
type QueryResponse struct {
	Answer      string `json:"answer"`
	SourceURL   string `json:"source_url"`
	ProductName string `json:"product_name,omitempty"`
	FactType    string `json:"fact_type,omitempty"`
	Scope       string `json:"scope,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// ErrorResponse is the error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// suggestions are example queries the UI can offer.
var suggestions = []string{
	"What is the expense ratio of ICICI Prudential Bluechip Fund?",
	"What is the exit load for ICICI Prudential Midcap Fund?",
	"What is the minimum SIP amount for small cap funds?",
	"What is the lock-in period for ELSS funds?",
	"Which benchmark does ICICI Prudential Multicap Fund track?",
	"How do I download my account statement?",
}
