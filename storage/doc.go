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


// Package storage provides the storage abstraction layer for kotae.
//
// This package defines the RecordRepository interface that decouples the
// vector store implementation from retrieval and conversation logic. It
// allows different backends (BadgerDB, in-memory, a vector-capable
// relational store) to be used interchangeably.
//
// Public constructors in backend packages return the RecordRepository
// interface rather than concrete types, so consumers never couple to a
// specific store:
//
//	repo, err := badger.NewRecordRepository(backend, 1536)
//
// The similarity metric (cosine) and the embedding dimension are fixed for
// the lifetime of a store; the dimension is persisted alongside the records
// and checked when a repository is opened, because dimension or metric
// drift silently corrupts ranking.
package storage
