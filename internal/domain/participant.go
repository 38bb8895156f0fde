package domain

// ParticipantKind tags the Participant variant.
type ParticipantKind string

const (
	KindHuman     ParticipantKind = "human"
	KindAssistant ParticipantKind = "assistant"
)

// Role is the directory role of a human participant.
type Role string

const (
	RoleStudent    Role = "student"
	RoleCounselor  Role = "counselor"
	RoleAdmin      Role = "admin"
	RoleUniversity Role = "university"

	// RoleAssistant is only ever carried by the Assistant participant.
	RoleAssistant Role = "assistant"
)

// AssistantID is the reserved identity under which assistant replies are
// stored. Human ids can never take this value.
const AssistantID = "assistant"

// Participant is one side of a conversation: either a human from the
// directory or the Assistant.
type Participant struct {
	Kind     ParticipantKind `json:"kind"`
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Role     Role            `json:"role"`
	OrgScope string          `json:"orgScope,omitempty"`
}

// Human builds a directory participant.
func Human(id, name string, role Role, orgScope string) Participant {
	return Participant{Kind: KindHuman, ID: id, Name: name, Role: role, OrgScope: orgScope}
}

// Assistant builds the Assistant participant with the given display name.
func Assistant(name string) Participant {
	return Participant{Kind: KindAssistant, ID: AssistantID, Name: name, Role: RoleAssistant}
}

// IsAssistant reports whether p is the Assistant variant.
func (p Participant) IsAssistant() bool {
	return p.Kind == KindAssistant
}

// Ref returns the display reference used in wire payloads.
func (p Participant) Ref() ParticipantRef {
	return ParticipantRef{ID: p.ID, Name: p.Name, Role: p.Role}
}

// ValidRole reports whether r may be assigned to a human participant.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleCounselor, RoleAdmin, RoleUniversity:
		return true
	}
	return false
}

// Session is the verified caller of a request.
type Session struct {
	ParticipantID string
	Role          Role
	OrgScopeID    string
}
