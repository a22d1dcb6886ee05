package app

import (
	"github.com/tgienger/taskvault/internal/codec"
	"github.com/tgienger/taskvault/internal/config"
	"github.com/tgienger/taskvault/internal/db"
	"github.com/tgienger/taskvault/internal/session"
	"github.com/tgienger/taskvault/internal/transfer"
	"github.com/tgienger/taskvault/internal/vault"
)

// App holds the wired components. The gate is created here and handed to
// the store, so nothing outside App keeps session state.
type App struct {
	Config   *config.Config
	DB       *db.DB
	Slot     *db.Slot
	Gate     *session.Gate
	Store    *vault.Store
	Transfer *transfer.Codec
}

// New opens the database and builds the store around it
func New(cfg *config.Config) (*App, error) {
	cipher, err := codec.Lookup(cfg.Cipher)
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.DataDir)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("data_dir", cfg.DataDir).
			Msg("failed to open database")
		return nil, err
	}
	globalLogger.Debug().
		Str("data_dir", cfg.DataDir).
		Msg("opened database")

	slot := database.Slot(cfg.StorageKey)
	gate := session.NewGate(session.SystemClock, cfg.Session.TTL)
	logger := globalLogger.With().Str("component", "vault").Logger()

	return &App{
		Config:   cfg,
		DB:       database,
		Slot:     slot,
		Gate:     gate,
		Store:    vault.NewStore(slot, gate, cipher, logger),
		Transfer: transfer.New(cipher),
	}, nil
}

// Close releases the database
func (a *App) Close() error {
	a.Gate.Lock()
	return a.DB.Close()
}
