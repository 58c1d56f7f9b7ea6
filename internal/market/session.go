package market

// WizardState is the step of the posting wizard.
type WizardState int

const (
	StateIdle WizardState = iota
	StateSelectServer
	StateSelectCategory
	StateSelectType
	StateFillFields
	StateAttachPhotos
	StateConfirm
)

func (s WizardState) String() string {
	switch s {
	case StateSelectServer:
		return "select_server"
	case StateSelectCategory:
		return "select_category"
	case StateSelectType:
		return "select_type"
	case StateFillFields:
		return "fill_fields"
	case StateAttachPhotos:
		return "attach_photos"
	case StateConfirm:
		return "confirm"
	}
	return "idle"
}

// Draft accumulates a listing while the wizard runs. The field cursor is
// len(Answers).
type Draft struct {
	Action    Action
	Server    string
	Category  string
	Type      ListingType
	Questions []string
	Answers   []string
	Photos    []string
}

// NextQuestion returns the question awaiting an answer.
func (d Draft) NextQuestion() (string, bool) {
	if len(d.Answers) >= len(d.Questions) {
		return "", false
	}
	return d.Questions[len(d.Answers)], true
}

// Fields pairs the answered questions with their answers.
func (d Draft) Fields() Fields {
	out := make(Fields, 0, len(d.Answers))
	for i, a := range d.Answers {
		if i >= len(d.Questions) {
			break
		}
		out = append(out, Field{Question: d.Questions[i], Answer: a})
	}
	return out
}

// Preview renders the draft as an unsaved listing.
func (d Draft) Preview(owner int64, handle string) Listing {
	return Listing{
		Owner:    owner,
		Handle:   handle,
		Server:   d.Server,
		Category: d.Category,
		Type:     d.Type,
		Action:   d.Action,
		Fields:   d.Fields(),
		Photos:   d.Photos,
	}
}

// Direction moves the search cursor.
type Direction string

const (
	DirNext Direction = "next"
	DirPrev Direction = "prev"
)

// SearchSession is a snapshot of matching listing ids and a cursor into it.
type SearchSession struct {
	Server   string
	Category string
	IDs      []int64
	Cursor   int
}

// CurrentID returns the id under the cursor.
func (s SearchSession) CurrentID() (int64, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.IDs) {
		return 0, false
	}
	return s.IDs[s.Cursor], true
}

// HasPrev reports whether the cursor can move back.
func (s SearchSession) HasPrev() bool { return s.Cursor > 0 }

// HasNext reports whether the cursor can move forward.
func (s SearchSession) HasNext() bool { return s.Cursor < len(s.IDs)-1 }

// Advance moves the cursor one step. It reports false and leaves the
// cursor alone when the move would leave the result set.
func (s *SearchSession) Advance(dir Direction) bool {
	switch {
	case dir == DirNext && s.HasNext():
		s.Cursor++
	case dir == DirPrev && s.HasPrev():
		s.Cursor--
	default:
		return false
	}
	return true
}

// Session is everything the bot remembers about one user between updates.
type Session struct {
	State  WizardState
	Draft  Draft
	Search SearchSession
}

// ResetWizard discards the draft.
func (s *Session) ResetWizard() {
	s.State = StateIdle
	s.Draft = Draft{}
}

// Idle reports whether the session holds nothing worth keeping.
func (s Session) Idle() bool {
	return s.State == StateIdle && s.Search.Server == "" && len(s.Search.IDs) == 0
}

// Sessions serializes access to per-user sessions.
type Sessions interface {
	Update(userID int64, fn func(*Session) error) error
}
