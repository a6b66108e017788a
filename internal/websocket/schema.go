package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer   Action = "answer"
	ActionNavigate Action = "navigate"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
)

// RequestPayload carries every client action. Unused fields are ignored
// per action; NavOp follows the REST navigate ops (next, previous, first,
// last, goto).
type RequestPayload struct {
	Action      Action `json:"action"`
	OptionIndex int    `json:"option_index"`
	NavOp       string `json:"nav_op"`
	Index       int    `json:"index"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventTick      Event = "tick"
	EventState     Event = "state"
	EventSubmitted Event = "submitted"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// TickEvent is pushed once per second while the session is active.
type TickEvent struct {
	Event    Event `json:"event"`
	TimeLeft int   `json:"time_left"`
}

// StateEvent acknowledges an answer or navigation action with the
// resulting session state.
type StateEvent struct {
	Event        Event `json:"event"`
	CurrentIndex int   `json:"current_index"`
	TimeLeft     int   `json:"time_left"`
	Answered     int   `json:"answered"`
}

// SubmittedEvent is the terminal message: the session has frozen its
// answers, whether by explicit submit or clock expiry.
type SubmittedEvent struct {
	Event    Event `json:"event"`
	Answered int   `json:"answered"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
