package domain

// ConversationSeparator joins the two participant ids of a conversation id.
// Participant ids are validated to never contain it.
const ConversationSeparator = "_"

// ResolveConversationID maps two participant ids to their canonical
// conversation id. It is commutative: the ids are sorted before joining.
// Callers reject self-pairs before calling it.
func ResolveConversationID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ConversationSeparator + b
}
