package action

import "github.com/go-notify-links/internal/domain"

// Action ids and labels for call notifications. Their order is the on-screen
// button order.
const (
	AnswerID      = "ANSWER_CALL"
	DeclineID     = "DECLINE_CALL"
	AnswerLabel   = "Answer"
	DeclineLabel  = "Decline"
	ParamAction   = "action"
	ParamTitle    = "title"
	ActionAnswer  = "answer"
	ActionDecline = "decline"
)

// Table maps a notification kind to its ordered list of user actions.
type Table struct {
	callScreen string
	homeScreen string
}

func NewTable(callScreen, homeScreen string) *Table {
	return &Table{callScreen: callScreen, homeScreen: homeScreen}
}

// For returns the actions for kind. Links are left empty; the builder encodes them.
func (t *Table) For(kind domain.Kind, title string) []domain.NotificationAction {
	switch kind {
	case domain.KindCall:
		return []domain.NotificationAction{
			{
				Label:    AnswerLabel,
				ActionID: AnswerID,
				Target:   domain.NewTarget(t.callScreen, ParamAction, ActionAnswer, ParamTitle, title),
			},
			{
				Label:    DeclineLabel,
				ActionID: DeclineID,
				Target:   domain.NewTarget(t.homeScreen, ParamAction, ActionDecline, ParamTitle, title),
			},
		}
	default:
		return []domain.NotificationAction{}
	}
}
