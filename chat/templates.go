// Copyright 2025 Kotae Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chat

import (
	"math/rand/v2"
	"strings"

	"github.com/kotaelabs/kotae/ai"
)

// conversationTemplates holds the canned replies for conversational intents.
// One variant is picked at random per reply.
var conversationTemplates = map[ai.Intent][]string{
	ai.IntentGreeting: {
		"こんにちは！サポートアシスタントです。ご用件をお聞かせください。",
		"いつもご利用ありがとうございます。サポート窓口です。",
	},
	ai.IntentFarewell: {
		"ご利用ありがとうございました。また何かございましたらお気軽にお声がけください。",
		"お気をつけてお過ごしください。また何かございましたらご相談ください。",
	},
	ai.IntentSmallTalk: {
		"ご親切にありがとうございます。サービスに関することでお困りの点がございましたら、お気軽にお申し付けください。",
	},
	ai.IntentOffTopic: {
		"申し訳ございませんが、サービスに関する質問にのみ回答させていただいております。",
		"サービスについて、お困りの点がございましたらお申し付けください。",
	},
}

// noMatchReply is returned when nothing in the knowledge base clears the
// similarity threshold.
const noMatchReply = "申し訳ございませんが、ご質問に関する情報が見つかりませんでした。恐れ入りますが、別の表現で質問し直していただけますでしょうか。"

// degradedReply is returned when reply generation fails after retries.
// The turn still completes; the user is never left without an answer.
const degradedReply = "申し訳ございませんが、現在システムエラーが発生しています。しばらくしてからもう一度お試しください。"

// referencesHeader labels the source links appended to knowledge-base replies.
const referencesHeader = "参考情報:"

// conversationKeywords maps conversational intents to the substrings that
// identify them without an LLM call. Checked in a fixed order so a message
// matching several intents classifies deterministically.
var conversationKeywords = []struct {
	intent   ai.Intent
	keywords []string
}{
	{ai.IntentGreeting, []string{"こんにちは", "おはよう", "こんばんは", "はじめまして", "よろしく"}},
	{ai.IntentFarewell, []string{"さようなら", "ありがとう", "お疲れ様", "また"}},
	{ai.IntentSmallTalk, []string{"天気", "調子", "元気", "どう"}},
	{ai.IntentOffTopic, []string{"映画", "音楽", "食事", "スポーツ"}},
}

// classifyByKeywords returns a conversational intent when the message
// contains one of its keywords, or empty when the LLM has to decide.
func classifyByKeywords(message string) (ai.Intent, bool) {
	for _, group := range conversationKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(message, keyword) {
				return group.intent, true
			}
		}
	}
	return "", false
}

// templateReply picks a canned reply for a conversational intent.
// Unknown intents fall back to the off-topic templates.
func templateReply(intent ai.Intent) string {
	templates, ok := conversationTemplates[intent]
	if !ok || len(templates) == 0 {
		templates = conversationTemplates[ai.IntentOffTopic]
	}
	return templates[rand.IntN(len(templates))]
}
