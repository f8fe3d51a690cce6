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

package kotae

import (
	"io"
	"log/slog"

	"github.com/kotaelabs/kotae/ai"
	"github.com/kotaelabs/kotae/ai/openai"
	"github.com/kotaelabs/kotae/chat"
	"github.com/kotaelabs/kotae/ingestion"
	"github.com/kotaelabs/kotae/reindex"
	"github.com/kotaelabs/kotae/search"
	"github.com/kotaelabs/kotae/session"
	"github.com/kotaelabs/kotae/storage"
	"github.com/kotaelabs/kotae/storage/badger"
)

// DefaultDimension matches OpenAI's text-embedding-3-small model.
const DefaultDimension = 1536

// Database is the top-level handle over a support knowledge base: the
// record store plus the AI provider, with constructors for the services
// built on them.
type Database struct {
	backend  *badger.Backend
	repo     storage.RecordRepository
	provider ai.AIProvider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig  *ai.Config
	dimension int
	provider  ai.AIProvider
}

// WithAIConfig sets the AI provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithDimension sets the embedding dimension enforced by the store.
// Default is DefaultDimension. Must match the embedding model in use.
func WithDimension(dim int) DatabaseOption {
	return func(o *databaseOptions) {
		o.dimension = dim
	}
}

// WithProvider supplies a pre-built AI provider instead of constructing an
// OpenAI-compatible one from config. Intended for tests and embedding.
func WithProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// NewDatabase opens (or creates) a knowledge base at filePath.
// An empty filePath opens an in-memory store.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig:  ai.DefaultConfig(),
		dimension: DefaultDimension,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewRecordRepository(backend, options.dimension)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:  backend,
		repo:     repo,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider, the repository, and the backend.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.repo.Close(); err != nil {
		db.logger.Error("error closing record repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// RecordRepository exposes the underlying record store.
func (db *Database) RecordRepository() storage.RecordRepository {
	return db.repo
}

// Provider exposes the underlying AI provider.
func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

// NewIndexer creates an indexer over this database.
func (db *Database) NewIndexer(opts ...ingestion.Option) (*ingestion.Indexer, error) {
	return ingestion.NewIndexer(db.repo, db.provider.Embedder(), opts...)
}

// NewRetriever creates a retriever over this database.
func (db *Database) NewRetriever(opts ...search.Option) (*search.Retriever, error) {
	return search.NewRetriever(db.repo, db.provider.Embedder(), opts...)
}

// NewEngine creates a conversation engine over this database.
func (db *Database) NewEngine(retrieverOpts []search.Option, opts ...chat.Option) (*chat.Engine, error) {
	retriever, err := db.NewRetriever(retrieverOpts...)
	if err != nil {
		return nil, err
	}
	return chat.NewEngine(retriever, db.provider.Completer(), db.provider.IntentClassifier(), opts...)
}

// NewOrchestrator creates a session orchestrator over this database.
func (db *Database) NewOrchestrator(retrieverOpts []search.Option, engineOpts []chat.Option, opts ...session.Option) (*session.Orchestrator, error) {
	engine, err := db.NewEngine(retrieverOpts, engineOpts...)
	if err != nil {
		return nil, err
	}
	return session.NewOrchestrator(engine, opts...)
}

// NewReindexer creates a reindexer over this database.
// progress: where to write progress output (typically os.Stderr)
func (db *Database) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(db.repo, db.provider.Embedder(), config, progress)
}
