package workflow

import "job-tracker/internal/domain/application"

// applicationTransitions lists the staff-driven status changes. Withdrawn is
// reachable only through Withdraw and is terminal.
var applicationTransitions = map[application.Status][]application.Status{
	application.StatusSubmitted: {
		application.StatusUnderReview, application.StatusInterview, application.StatusAccepted, application.StatusRejected,
	},
	application.StatusUnderReview: {
		application.StatusSubmitted, application.StatusInterview, application.StatusAccepted, application.StatusRejected,
	},
	application.StatusInterview: {
		application.StatusUnderReview, application.StatusAccepted, application.StatusRejected,
	},
	application.StatusAccepted: {
		application.StatusInterview, application.StatusRejected,
	},
	application.StatusRejected: {
		application.StatusUnderReview, application.StatusInterview,
	},
	application.StatusWithdrawn: nil,
}

func CanTransition(from, to application.Status) bool {
	for _, s := range applicationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func canWithdraw(from application.Status) bool {
	return from != application.StatusAccepted && from != application.StatusWithdrawn
}
