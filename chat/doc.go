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

// Package chat turns user messages into support replies.
//
// The Engine type processes one turn at a time through a small state
// machine: idle → classifying → searching or responding → idle. Messages
// classify either as conversational (greeting, farewell, small talk,
// off-topic), answered from Japanese canned templates, or as questions,
// answered by retrieving similar support records and composing an LLM reply
// with the matched reference links appended.
//
// The engine degrades instead of failing: classification errors default to
// a search, retrieval errors answer without references, and completion
// errors fall back to a system-error template. Every turn yields a reply.
//
// Session holds per-conversation state: a FIFO-bounded turn history and the
// retrieval context that followup questions re-use.
package chat
