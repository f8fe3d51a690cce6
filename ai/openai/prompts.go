package openai

import (
	"fmt"
	"strings"

	"github.com/kotaelabs/kotae/ai"
)

// answerSystemPrompt is the persona used for reply generation. Answers are
// composed in polite Japanese (です/ます調) and must stay within the
// retrieved reference material.
const answerSystemPrompt = `You are a helpful customer-support assistant that answers questions about mobile phone services in Japanese.

Rules:
- Directly address the user's question.
- Use formal and polite language (です/ます調).
- Base your answer only on the information in the [Relevant Information] section when it is present. If it does not cover the question, say so politely and suggest rephrasing.
- Maintain a professional tone.
- Keep the answer concise.`

const classificationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "intent": {
      "type": "string",
      "enum": [%s]
    }
  },
  "required": ["intent"],
  "additionalProperties": false
}`

const classificationPromptTemplate = `Classify the intent of the user's latest message in a customer-support conversation about mobile phone services. The conversation is in Japanese.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Intent definitions:
- "search": a question about the service that needs a knowledge-base lookup (fees, contracts, SIM, devices, procedures).
- "followup": continues or narrows the immediately preceding question; the previous search results still apply.
- "greeting": a salutation with no question (こんにちは, はじめまして).
- "farewell": ends the conversation or thanks the assistant (さようなら, ありがとうございました).
- "small_talk": polite chit-chat with no support content (weather, how are you).
- "off_topic": a request unrelated to the service (movies, sports, food).

Rules:
- When the message contains both a pleasantry and a question, classify by the question.
- When uncertain between "search" and anything else, prefer "search".
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "SIMロックの解除方法を教えてください"
Output:
{"intent": "search"}

Example:
Input: "それは店頭でもできますか"
(previous message asked about SIM unlocking)
Output:
{"intent": "followup"}

Example:
Input: "こんにちは"
Output:
{"intent": "greeting"}

Example:
Input: "おすすめの映画はありますか"
Output:
{"intent": "off_topic"}`

// buildClassificationPrompt creates the classifier system prompt with the
// intent enum embedded in the response schema.
func buildClassificationPrompt() string {
	quoted := make([]string, len(ai.Intents))
	for i, intent := range ai.Intents {
		quoted[i] = fmt.Sprintf("%q", string(intent))
	}
	schema := fmt.Sprintf(classificationResponseSchema, strings.Join(quoted, ", "))
	return fmt.Sprintf(classificationPromptTemplate, schema)
}
