package common

import "errors"

// Error taxonomy shared by the level session. Wrap with fmt.Errorf and test
// with errors.Is.
var (
	// ErrConfiguration marks missing or invalid level data or a missing
	// collaborator. Fatal to the level session.
	ErrConfiguration = errors.New("configuration error")
	// ErrState marks an illegal transition such as binding a bound slot.
	ErrState = errors.New("state error")
	// ErrLogic marks a broken resource accounting invariant.
	ErrLogic = errors.New("logic error")
)
