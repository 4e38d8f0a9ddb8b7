package models

// QuizStyle controls where the questions may come from: strict means every
// question must be answerable from the uploaded document alone, similar
// allows newly invented questions of comparable topic and difficulty.
type QuizStyle string

const (
	StyleStrict  QuizStyle = "strict"
	StyleSimilar QuizStyle = "similar"
)

func (s QuizStyle) Valid() bool {
	return s == StyleStrict || s == StyleSimilar
}

type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type Quiz struct {
	Questions []Question `json:"questions"`
}

// Document is an uploaded file handed to a provider. Providers that cannot
// read binary input work from Filename alone.
type Document struct {
	Filename string
	Data     []byte
}

type GenerateQuizResponse struct {
	Questions []Question `json:"questions,omitempty"`
	Fallback  bool       `json:"fallback,omitempty"`
	Error     string     `json:"error,omitempty"`
	Quiz      *Quiz      `json:"quiz,omitempty"`
}

type IdentifyTopicResponse struct {
	Topic string `json:"topic"`
}
