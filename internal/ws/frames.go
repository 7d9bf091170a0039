package ws

// Frame type discriminators.
const (
	TypeConnected           = "CONNECTED"
	TypeStartListProcessing = "START_LIST_PROCESSING"
	TypeProcessingStarted   = "LIST_PROCESSING_STARTED"
	TypeProcessingProgress  = "LIST_PROCESSING_PROGRESS"
	TypeProcessingCompleted = "LIST_PROCESSING_COMPLETED"
	TypeProcessingError     = "LIST_PROCESSING_ERROR"
)

// inboundFrame is the envelope for client messages. Only the fields for
// the recognized type are populated.
type inboundFrame struct {
	Type            string          `json:"type"`
	ListName        string          `json:"listName"`
	ListTags        []string        `json:"listTags"`
	TenantID        string          `json:"tenantId"`
	DefaultJobTitle string          `json:"defaultJobTitle"`
	DefaultLocation string          `json:"defaultLocation"`
	NormalizedData  *normalizedData `json:"normalizedData"`
}

type normalizedData struct {
	List []map[string]any `json:"list"`
}

type connectedFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type startedFrame struct {
	Type      string `json:"type"`
	ListName  string `json:"listName"`
	Timestamp string `json:"timestamp"`
}

type progressFrame struct {
	Type      string `json:"type"`
	ListName  string `json:"listName"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Timestamp string `json:"timestamp"`
}

type completedFrame struct {
	Type           string `json:"type"`
	ListName       string `json:"listName"`
	AddedCount     int    `json:"addedCount"`
	DuplicateCount int    `json:"duplicateCount"`
	Timestamp      string `json:"timestamp"`
}

type errorFrame struct {
	Type      string `json:"type"`
	ListName  string `json:"listName"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}
