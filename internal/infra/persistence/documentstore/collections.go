// Package documentstore keeps accounts in gocloud docstore collections, which lets the
// same repository run on memory, MongoDB or any URL-addressed docstore backend.
package documentstore

import (
	"context"
	"log/slog"

	"cycletrack/config"
	"cycletrack/internal/domain/lifecycle"
	"cycletrack/internal/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
	"gocloud.dev/docstore"
	_ "gocloud.dev/docstore/gcpfirestore"
	"gocloud.dev/docstore/memdocstore"
	"gocloud.dev/docstore/mongodocstore"
)

const (
	accountKeyField = "id"
	emailKeyField   = "email"
)

// Collections pairs the account collection with the email claim collection that
// enforces email uniqueness.
type Collections struct {
	Accounts *docstore.Collection
	Emails   *docstore.Collection
}

// Close releases both collections.
func (c *Collections) Close() error {
	return errors.Join(c.Accounts.Close(), c.Emails.Close())
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the account collections for the configured driver and ties their
// shutdown to the fx lifecycle.
func New(params Params) (*Collections, error) {
	storage := params.Config.Storage

	switch storage.Driver {
	case config.StorageDriverMongo:
		return openMongo(params)
	case config.StorageDriverURL:
		params.Logger.Info("Opening docstore collections by URL")

		colls, err := OpenURL(params.Ctx, storage.URL.Accounts, storage.URL.Emails)
		if err != nil {
			return nil, err
		}
		params.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return colls.Close()
			},
		})

		return colls, nil
	default:
		params.Logger.Info("Using in-memory docstore collections")

		colls, err := OpenMemory()
		if err != nil {
			return nil, err
		}
		params.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return colls.Close()
			},
		})

		return colls, nil
	}
}

// OpenMemory opens process-local collections; data is lost on shutdown.
func OpenMemory() (*Collections, error) {
	accounts, err := memdocstore.OpenCollection(accountKeyField, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open memory accounts collection")
	}

	emails, err := memdocstore.OpenCollection(emailKeyField, nil)
	if err != nil {
		_ = accounts.Close()

		return nil, errors.Wrap(err, "open memory emails collection")
	}

	return &Collections{Accounts: accounts, Emails: emails}, nil
}

// OpenURL opens both collections through the docstore URL mux (mem://, mongo://, firestore://).
func OpenURL(ctx context.Context, accountsURL, emailsURL string) (*Collections, error) {
	accounts, err := docstore.OpenCollection(ctx, accountsURL)
	if err != nil {
		return nil, errors.Wrap(err, "open accounts collection")
	}

	emails, err := docstore.OpenCollection(ctx, emailsURL)
	if err != nil {
		_ = accounts.Close()

		return nil, errors.Wrap(err, "open emails collection")
	}

	return &Collections{Accounts: accounts, Emails: emails}, nil
}

func openMongo(params Params) (*Collections, error) {
	cfg := params.Config.Storage.Mongo

	client, err := mongodocstore.Dial(params.Ctx, cfg.URI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MongoDB client")
	}

	db := client.Database(cfg.Database)
	colls, err := openMongoCollections(db.Collection(cfg.AccountsCollection), db.Collection(cfg.EmailsCollection))
	if err != nil {
		_ = client.Disconnect(params.Ctx)

		return nil, err
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				return errors.Wrap(err, "failed to ping MongoDB")
			}
			params.Logger.Info("Connected to MongoDB",
				slog.String("database", cfg.Database),
				slog.String("accounts", cfg.AccountsCollection),
				slog.String("emails", cfg.EmailsCollection),
			)

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			closeErr := colls.Close()
			if err := client.Disconnect(stopCtx); err != nil {
				return errors.Wrap(err, "failed to disconnect MongoDB")
			}

			return closeErr
		},
	})

	return colls, nil
}

func openMongoCollections(accountsColl, emailsColl *mongo.Collection) (*Collections, error) {
	accounts, err := mongodocstore.OpenCollection(accountsColl, accountKeyField, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open mongo accounts collection")
	}

	emails, err := mongodocstore.OpenCollection(emailsColl, emailKeyField, nil)
	if err != nil {
		_ = accounts.Close()

		return nil, errors.Wrap(err, "open mongo emails collection")
	}

	return &Collections{Accounts: accounts, Emails: emails}, nil
}
