package service

import (
	"context"
	"fmt"
	"log/slog"

	"filetrack/internal/config"
	"filetrack/internal/domain/repositories"
	changeRepo "filetrack/internal/domain/repositories/filechange"
	workspaceRepo "filetrack/internal/domain/repositories/workspace"
	changeSvc "filetrack/internal/domain/services/filechange"
	workspaceSvc "filetrack/internal/domain/services/workspace"
	"filetrack/internal/repository/postgres"
	postgresChange "filetrack/internal/repository/postgres/filechange"
	postgresWorkspace "filetrack/internal/repository/postgres/workspace"
	"filetrack/internal/repository/sqlite"
	"filetrack/internal/service/filechange"
	"filetrack/internal/service/workspace"
)

// Repositories holds one store's repository implementations
type Repositories struct {
	Projects    workspaceRepo.ProjectRepository
	Chats       workspaceRepo.ChatRepository
	SubChats    workspaceRepo.SubChatRepository
	FileChanges changeRepo.FileChangeRepository
	TxManager   repositories.TransactionManager
}

// OpenRepositories connects to the configured store and applies the schema.
// The returned func releases the connection.
func OpenRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Repositories, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("database connected", "driver", cfg.StoreDriver, "path", cfg.SQLitePath)

		repoConfig := &sqlite.RepositoryConfig{DB: db, Logger: logger}
		return &Repositories{
			Projects:    sqlite.NewProjectRepository(repoConfig),
			Chats:       sqlite.NewChatRepository(repoConfig),
			SubChats:    sqlite.NewSubChatRepository(repoConfig),
			FileChanges: sqlite.NewFileChangeRepository(repoConfig),
			TxManager:   sqlite.NewTransactionManager(db, logger),
		}, func() { db.Close() }, nil

	case config.StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.Migrate(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("database connected", "driver", cfg.StoreDriver, "table_prefix", cfg.TablePrefix)

		repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
		return &Repositories{
			Projects:    postgresWorkspace.NewProjectRepository(repoConfig),
			Chats:       postgresWorkspace.NewChatRepository(repoConfig),
			SubChats:    postgresWorkspace.NewSubChatRepository(repoConfig),
			FileChanges: postgresChange.NewFileChangeRepository(repoConfig),
			TxManager:   postgres.NewTransactionManager(pool, logger),
		}, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Services holds the services exposed to handlers and the CLI
type Services struct {
	Projects    workspaceSvc.ProjectService
	Chats       workspaceSvc.ChatService
	FileChanges changeSvc.FileChangeService
}

// SetupServices wires services on top of a store
func SetupServices(repos *Repositories, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	vocab, err := filechange.LoadVocabulary(cfg.ToolVocabularyFile)
	if err != nil {
		return nil, fmt.Errorf("load tool vocabulary: %w", err)
	}

	markers := cfg.ExcludedPathMarkers
	if markers == nil {
		markers = vocab.ExcludedPathMarkers()
	}
	excluder := filechange.NewPathExcluder(markers)
	logger.Info("change tracking configured", "excluded_path_markers", excluder.Markers())

	ingestor := filechange.NewIngestor(vocab, excluder, logger)

	return &Services{
		Projects: workspace.NewProjectService(repos.Projects, logger),
		Chats:    workspace.NewChatService(repos.Chats, repos.SubChats, logger),
		FileChanges: filechange.NewFileChangeService(
			repos.FileChanges,
			repos.Chats,
			repos.TxManager,
			ingestor,
			logger,
		),
	}, nil
}
