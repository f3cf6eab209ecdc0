package identity

// Error messages of the Errored state.
const (
	ErrMsgNotFound  = "School ID not found in user data"
	ErrMsgRetrieval = "Error retrieving school ID"
)

type Status int

const (
	Idle Status = iota
	Loading
	Resolved
	Errored
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Resolved:
		return "resolved"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// State is one of Idle, Loading, Resolved(SchoolID) or Errored(Err).
type State struct {
	Status   Status
	SchoolID string // Resolved only
	Err      string // Errored only
}

type eventKind int

const (
	evStarted eventKind = iota
	evFound
	evMissing
	evFailed
)

// Event drives a State through Transition.
type Event struct {
	kind     eventKind
	schoolID string
}

var (
	Started = Event{kind: evStarted}
	Missing = Event{kind: evMissing}
	Failed  = Event{kind: evFailed}
)

func Found(schoolID string) Event {
	return Event{kind: evFound, schoolID: schoolID}
}

// Transition returns the state following s on ev.
//
//	Idle    --Started--> Loading
//	Loading --Found----> Resolved
//	Loading --Missing--> Errored(ErrMsgNotFound)
//	Loading --Failed---> Errored(ErrMsgRetrieval)
//
// Any other pair leaves s unchanged.
func Transition(s State, ev Event) State {
	switch {
	case s.Status == Idle && ev.kind == evStarted:
		return State{Status: Loading}
	case s.Status != Loading:
		return s
	}

	switch ev.kind {
	case evFound:
		return State{Status: Resolved, SchoolID: ev.schoolID}
	case evMissing:
		return State{Status: Errored, Err: ErrMsgNotFound}
	case evFailed:
		return State{Status: Errored, Err: ErrMsgRetrieval}
	default:
		return s
	}
}

// Terminal reports whether s is Resolved or Errored.
func (s State) Terminal() bool {
	return s.Status == Resolved || s.Status == Errored
}

// Result is the consumer view of a State.
type Result struct {
	SchoolID  *string `json:"schoolId"`
	IsLoading bool    `json:"isLoading"`
	Error     *string `json:"error"`
}

func (s State) Result() Result {
	var res Result
	switch s.Status {
	case Loading:
		res.IsLoading = true
	case Resolved:
		id := s.SchoolID
		res.SchoolID = &id
	case Errored:
		msg := s.Err
		res.Error = &msg
	}
	return res
}
