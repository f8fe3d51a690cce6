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

// Package search provides semantic retrieval over the support record store.
//
// The Retriever type embeds a text query and ranks stored records by cosine
// similarity, returning at most topK matches above a similarity threshold.
// Embedding calls are retried with exponential backoff. A RetrievalMonitor
// can observe each stage of the process.
package search
