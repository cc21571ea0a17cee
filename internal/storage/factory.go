package storage

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pfrederiksen/chapter-events/internal/crypto"
)

// Options selects and configures a backend
type Options struct {
	DataFile        string
	KVURL           string
	KVToken         string
	KVKey           string
	GistID          string
	GitHubToken     string
	EncryptionKey   string
	SheetsURL       string
	DefaultTimezone string
	Timeout         time.Duration
}

// Backend names which store New selected
func (o Options) Backend() string {
	switch {
	case o.SheetsURL != "":
		return backendSheet
	case o.KVURL != "" && o.KVToken != "":
		return backendKV
	case o.GistID != "" && o.GitHubToken != "":
		return backendGist
	default:
		return backendFile
	}
}

// New builds the configured store: a published sheet when set, otherwise a
// KV or Gist backend seeded from the local file, otherwise the local file.
func New(opts Options, recorder OpRecorder, log *zap.Logger) (Store, error) {
	backend := opts.Backend()
	enc := crypto.NewEncryptor(opts.EncryptionKey)

	var store Store
	switch backend {
	case backendSheet:
		sheet, err := NewSheetStore(opts.SheetsURL, opts.DefaultTimezone, opts.Timeout)
		if err != nil {
			return nil, err
		}
		store = sheet

	case backendKV, backendGist:
		local, err := NewFileStore(opts.DataFile)
		if err != nil {
			return nil, err
		}
		var remote Store
		if backend == backendKV {
			remote, err = NewKVStore(opts.KVURL, opts.KVToken, opts.KVKey, opts.Timeout, enc)
		} else {
			remote, err = NewGistStore(opts.GistID, opts.GitHubToken, opts.Timeout, enc)
		}
		if err != nil {
			return nil, fmt.Errorf("configuring %s backend: %w", backend, err)
		}
		store = NewSeededStore(remote, local, backend, log)

	default:
		local, err := NewFileStore(opts.DataFile)
		if err != nil {
			return nil, err
		}
		store = local
	}

	log.Info("Event store configured",
		zap.String("backend", backend),
		zap.Bool("encrypted", enc != nil && backend != backendSheet && backend != backendFile))

	return Observe(store, backend, recorder), nil
}
