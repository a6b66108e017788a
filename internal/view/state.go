package view

import "errors"

// View names the top-level screens of the portal.
type View string

const (
	Landing            View = "LANDING"
	Login              View = "LOGIN"
	ModeratorDashboard View = "MODERATOR_DASHBOARD"
	StudentIntro       View = "STUDENT_INTRO"
	StudentExam        View = "STUDENT_EXAM"
	StudentDetailsForm View = "STUDENT_DETAILS_FORM"
	StudentResult      View = "STUDENT_RESULT"
)

// Event triggers a view transition.
type Event string

const (
	EventChooseStudent    Event = "choose_student"
	EventChooseModerator  Event = "choose_moderator"
	EventLoginSucceeded   Event = "login_succeeded"
	EventStartExam        Event = "start_exam"
	EventExamCompleted    Event = "exam_completed"
	EventDetailsSubmitted Event = "details_submitted"
	EventBack             Event = "back"
)

// Guards carry the facts a transition may depend on.
type Guards struct {
	// QuestionCount gates StudentIntro → StudentExam: the exam is never
	// entered with an empty question store.
	QuestionCount int
	// Authenticated reports whether the moderator logged in this session.
	// Decides where "back" from the result screen lands.
	Authenticated bool
}

// Transition errors.
var (
	ErrInvalidTransition = errors.New("view transition not allowed")
	ErrNoQuestions       = errors.New("exam cannot start with an empty question store")
	ErrNotAuthenticated  = errors.New("moderator login required")
)

// Transition applies the portal's screen state machine. It returns the next
// view or an error leaving the current view untouched.
func Transition(current View, event Event, g Guards) (View, error) {
	switch current {
	case Landing:
		switch event {
		case EventChooseStudent:
			return StudentIntro, nil
		case EventChooseModerator:
			return Login, nil
		}

	case Login:
		switch event {
		case EventLoginSucceeded:
			if !g.Authenticated {
				return current, ErrNotAuthenticated
			}
			return ModeratorDashboard, nil
		case EventBack:
			return Landing, nil
		}

	case ModeratorDashboard:
		if event == EventBack {
			return Landing, nil
		}

	case StudentIntro:
		if event == EventStartExam {
			if g.QuestionCount == 0 {
				return current, ErrNoQuestions
			}
			return StudentExam, nil
		}

	case StudentExam:
		if event == EventExamCompleted {
			return StudentDetailsForm, nil
		}

	case StudentDetailsForm:
		if event == EventDetailsSubmitted {
			return StudentResult, nil
		}

	case StudentResult:
		if event == EventBack {
			if g.Authenticated {
				return ModeratorDashboard, nil
			}
			return Landing, nil
		}
	}

	return current, ErrInvalidTransition
}

// InitialView resolves the entry screen. The mode=student deep link is the
// only externally addressable entry point and bypasses the landing page.
func InitialView(deepLinkStudent bool) View {
	if deepLinkStudent {
		return StudentIntro
	}
	return Landing
}
