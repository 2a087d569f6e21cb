// ABOUTME: QARecord is one dataset row: a source chunk plus its generated question and answer
// ABOUTME: Field identifies which generated text column a mutation targets
package models

// Field identifies a mutable text field on a QARecord
type Field string

const (
	FieldQuestion Field = "question"
	FieldAnswer   Field = "answer"
)

// IsValid checks whether the field is a known mutable column
func (f Field) IsValid() bool {
	return f == FieldQuestion || f == FieldAnswer
}

// QARecord pairs a source chunk with its generated question and answer.
// Context is set once at creation; the remaining fields are mutated
// incrementally while generation streams.
type QARecord struct {
	ID                 int    `json:"id"`
	Context            string `json:"context"`
	Question           string `json:"question"`
	Answer             string `json:"answer"`
	Selected           bool   `json:"selected"`
	GeneratingQuestion bool   `json:"generating_question"`
	GeneratingAnswer   bool   `json:"generating_answer"`
}
