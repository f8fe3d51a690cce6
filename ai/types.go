package ai

// Intent is the category an intent classifier assigns to a user message.
type Intent string

// Intents recognized by the conversation engine. Search and followup
// intents trigger a knowledge-base lookup; the rest are answered from
// canned conversational templates.
const (
	// IntentSearch is a question that needs a knowledge-base lookup.
	IntentSearch Intent = "search"

	// IntentFollowup continues the previous question and re-uses its
	// retrieval context.
	IntentFollowup Intent = "followup"

	// IntentGreeting is a salutation with no informational content.
	IntentGreeting Intent = "greeting"

	// IntentFarewell ends the conversation.
	IntentFarewell Intent = "farewell"

	// IntentSmallTalk is chit-chat unrelated to any support topic.
	IntentSmallTalk Intent = "small_talk"

	// IntentOffTopic is a request outside the supported domain.
	IntentOffTopic Intent = "off_topic"
)

// Intents lists every valid intent value, in the order classifiers
// should prefer them when uncertain.
var Intents = []Intent{
	IntentSearch,
	IntentFollowup,
	IntentGreeting,
	IntentFarewell,
	IntentSmallTalk,
	IntentOffTopic,
}

// Valid reports whether i is one of the recognized intents.
func (i Intent) Valid() bool {
	for _, known := range Intents {
		if i == known {
			return true
		}
	}
	return false
}

// RequiresSearch reports whether messages with this intent need a
// knowledge-base lookup before a reply can be generated.
func (i Intent) RequiresSearch() bool {
	return i == IntentSearch || i == IntentFollowup
}
