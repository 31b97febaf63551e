package domain

// TestType distinguishes the two quiz flavours the site offers.
type TestType string

const (
	// TestTypeMain is the multi-section test: 10 questions sampled from each
	// of the canonical sections.
	TestTypeMain TestType = "Main"
	// TestTypeMini is the single-bank test: 50 questions sampled from one pool.
	TestTypeMini TestType = "Mini"
)

const (
	// QuestionsPerSection is how many questions the Main test draws per section.
	QuestionsPerSection = 10
	// MiniQuestionCount is how many questions the Mini test draws from its bank.
	MiniQuestionCount = 50
	// MaxDisplayedOptions caps how many options are shown per question.
	MaxDisplayedOptions = 4
)

// Question is an immutable bank entry. Options map the original option key
// (e.g. "A".."H") to option text; CorrectKey is always one of those keys.
type Question struct {
	ID            string            `json:"id"`
	SectionNumber int               `json:"sectionNumber"`
	SectionTitle  string            `json:"sectionTitle"`
	Prompt        string            `json:"prompt"`
	Options       map[string]string `json:"options"`
	CorrectKey    string            `json:"correctKey"`
	Explanation   string            `json:"explanation,omitempty"`
}

// DisplayedOption is one answer choice as shown to the participant. Label is
// the sequential letter assigned after shuffling; OrigKey is the source key
// used for correctness checks and never rendered.
type DisplayedOption struct {
	Label   string `json:"label"`
	OrigKey string `json:"-"`
	Text    string `json:"text"`
}

// SampledQuestion bundles a question with one fixed displayed ordering,
// generated once per attempt and never re-randomized afterwards.
type SampledQuestion struct {
	Question Question
	Options  []DisplayedOption
}

// CorrectOption returns the displayed option carrying the correct key.
func (q SampledQuestion) CorrectOption() (DisplayedOption, bool) {
	for _, opt := range q.Options {
		if opt.OrigKey == q.Question.CorrectKey {
			return opt, true
		}
	}
	return DisplayedOption{}, false
}

// SectionGroup is the loader's output: one section's questions, flattened
// across any nested level grouping in the source document.
type SectionGroup struct {
	Number    int
	Title     string
	Questions []Question
}

// Bank is the full set of loadable questions for one test type.
type Bank struct {
	TestType TestType
	Sections []SectionGroup
}

// QuestionCount sums available questions across all sections.
func (b Bank) QuestionCount() int {
	total := 0
	for _, s := range b.Sections {
		total += len(s.Questions)
	}
	return total
}

// SectionInfo identifies one canonical section of the Main test.
type SectionInfo struct {
	Number int
	Title  string
}

// MainSections is the canonical section list of the Main test. The result
// breakdown is padded against it so every section appears even when its
// source failed to load.
func MainSections() []SectionInfo {
	return []SectionInfo{
		{1, "Apex Fundamentals & OOP Concepts"},
		{2, "Salesforce Triggers"},
		{3, "Asynchronous Apex"},
		{4, "Lightning Web Components"},
		{5, "Aura Components & Migration to LWC"},
		{6, "Visualforce"},
		{7, "SOQL & SOSL"},
		{8, "Integration"},
		{9, "OmniStudio"},
		{10, "Sales Cloud"},
		{11, "Service Cloud"},
		{12, "Experience Cloud"},
		{13, "Security & Sharing"},
		{14, "Deployment & DevOps"},
		{15, "Governor Limits & Performance Tuning"},
		{16, "Testing"},
		{17, "Design Patterns & Frameworks"},
		{18, "Advanced Topics"},
	}
}

// Status is the lifecycle state of an attempt.
type Status string

const (
	StatusNotStarted Status = "NotStarted"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
	StatusQuit       Status = "Quit"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusQuit
}

// AnswerFeedback is what the presentation adapter renders after a submission.
type AnswerFeedback struct {
	Correct      bool   `json:"correct"`
	CorrectLabel string `json:"correctLabel"`
	CorrectText  string `json:"correctText"`
	Explanation  string `json:"explanation,omitempty"`
	Score        int    `json:"score"`
}

// SectionResult is one row of the Main test breakdown.
type SectionResult struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Correct int    `json:"correct"`
	Total   int    `json:"total,omitempty"`
}

// ResultSummary is the serializable outcome of one attempt, shaped to match
// the QuizAttemptAPI wire format. Sections is present only for Main tests.
type ResultSummary struct {
	Name           string          `json:"name"`
	TestType       TestType        `json:"testType"`
	Status         string          `json:"status"`
	TotalQuestions int             `json:"totalQuestions"`
	TotalCorrect   int             `json:"totalCorrect"`
	TotalScore     int             `json:"totalScore"`
	Sections       []SectionResult `json:"sections,omitempty"`
}
