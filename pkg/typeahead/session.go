package typeahead

// sessionState enumerates the suggestion session lifecycle.
type sessionState int

const (
	sessionClosed sessionState = iota
	sessionPending
	sessionOpen
)

// session tracks one suggestion interaction from token detection to close.
// A session is identified by its trigger and the offset the token run starts
// at, not by the partial token alone.
type session struct {
	state      sessionState
	trigger    rune
	token      string
	start      int // rune offset of the trigger character
	caret      int // caret offset recorded at the latest token update
	candidates []Candidate
	selected   int
	loading    bool
}

func (s *session) active() bool {
	return s.state != sessionClosed
}

func (s *session) reset() {
	*s = session{selected: -1}
}

// open transitions the session to the open state with resolved candidates.
func (s *session) open(items []Candidate) {
	s.state = sessionOpen
	s.candidates = items
	s.selected = 0
	s.loading = false
}

func (s *session) nextCandidate() {
	if s.state != sessionOpen || len(s.candidates) == 0 {
		return
	}
	s.selected = (s.selected + 1) % len(s.candidates)
}

func (s *session) prevCandidate() {
	if s.state != sessionOpen || len(s.candidates) == 0 {
		return
	}
	s.selected--
	if s.selected < 0 {
		s.selected = len(s.candidates) - 1
	}
}

func (s *session) current() (Candidate, bool) {
	if s.state != sessionOpen || s.selected < 0 || s.selected >= len(s.candidates) {
		return Candidate{}, false
	}
	return s.candidates[s.selected], true
}
