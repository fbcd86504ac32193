package types

// ConfirmationRequest is handed back by the controller when an operation
// (deleting a non-empty folder) needs explicit user approval.
type ConfirmationRequest struct {
	// ID is passed back to Controller.Confirm
	ID string

	// Operation names the guarded operation, e.g. "delete"
	Operation string

	// Title is a brief, user-friendly title describing what needs confirmation
	Title string

	// Description provides detailed information about what will happen
	Description string

	// Items lists the entries that will be affected
	Items []string

	// Default indicates the default response if user just presses enter
	Default bool
}

// ConfirmationResponse represents a user's response to a confirmation request
type ConfirmationResponse struct {
	ID       string
	Approved bool
}

// ConfirmationContext holds all user responses to confirmation requests
type ConfirmationContext struct {
	Responses map[string]bool
}

// NewConfirmationContext creates a new ConfirmationContext from a list of responses
func NewConfirmationContext(responses []ConfirmationResponse) *ConfirmationContext {
	responseMap := make(map[string]bool, len(responses))
	for _, resp := range responses {
		responseMap[resp.ID] = resp.Approved
	}
	return &ConfirmationContext{Responses: responseMap}
}

// IsApproved returns true if the confirmation with the given ID was approved
func (cc *ConfirmationContext) IsApproved(confirmationID string) bool {
	if cc == nil || cc.Responses == nil {
		return false
	}
	return cc.Responses[confirmationID]
}

// AllApproved returns true if all confirmations were approved
func (cc *ConfirmationContext) AllApproved(confirmationIDs []string) bool {
	if len(confirmationIDs) == 0 {
		return true
	}
	if cc == nil || cc.Responses == nil {
		return false
	}
	for _, id := range confirmationIDs {
		if !cc.Responses[id] {
			return false
		}
	}
	return true
}
