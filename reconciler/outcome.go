package reconciler

import "github.com/crmarques/connectorctl/faults"

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeDuplicate
	OutcomeInvalidConfiguration
	OutcomeNotFound
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeInvalidConfiguration:
		return "invalid-configuration"
	case OutcomeNotFound:
		return "not-found"
	default:
		return "failed"
	}
}

// Classify maps an error returned by this package to the outcome callers
// branch on. Duplicate and invalid-configuration outcomes are terminal and
// need a fix outside connectorctl.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case IsDuplicateResource(err):
		return OutcomeDuplicate
	case IsInvalidConfiguration(err):
		return OutcomeInvalidConfiguration
	case faults.IsCategory(err, faults.NotFoundError):
		return OutcomeNotFound
	default:
		return OutcomeFailed
	}
}

// Actionable reports whether err is best shown as its one-line message rather
// than with its full cause chain.
func Actionable(err error) bool {
	switch Classify(err) {
	case OutcomeDuplicate, OutcomeInvalidConfiguration:
		return true
	default:
		return IsAttributeNotFound(err)
	}
}
