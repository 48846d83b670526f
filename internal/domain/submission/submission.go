package submission

// Answer is one student's answer to one question, as recognized from an
// uploaded document. Flags carries recognition warnings the extraction step
// attached (low confidence regions, unreadable fragments).
type Answer struct {
	QID     string   `json:"q_id"`
	Number  string   `json:"number"`
	Type    string   `json:"type"`
	Content string   `json:"content"`
	Flags   []string `json:"flag,omitempty"`
}

// StudentSubmission is one student's full answer set. The grading core only
// reads submissions; they are owned by the student store.
type StudentSubmission struct {
	StudentID   string   `json:"stu_id"`
	StudentName string   `json:"stu_name"`
	Answers     []Answer `json:"stu_ans"`
}

// Gradable reports whether the submission can participate in a batch run.
// Submissions whose id could not be extracted from the filename arrive with
// an empty StudentID and are skipped, not failed.
func (s *StudentSubmission) Gradable() bool {
	return s.StudentID != ""
}
