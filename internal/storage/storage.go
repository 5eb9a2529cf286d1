package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"clipo/clipoterm/internal/models"
)

const accountsFile = "accounts.json"

var ErrAccountNotFound = goerr.New("account not found")

type Storage struct {
	dataDir string
	mu      sync.Mutex
}

type AccountStorage struct {
	Accounts []models.Account `json:"accounts"`
}

func NewStorage(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, goerr.Wrap(err, "failed to create data directory", goerr.V("dir", dataDir))
	}

	return &Storage{dataDir: dataDir}, nil
}

// SaveAccount inserts account or replaces the stored account with the same ID
func (s *Storage) SaveAccount(account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	storage, err := s.loadAccountStorage()
	if err != nil {
		return err
	}

	for i, existing := range storage.Accounts {
		if existing.ID == account.ID {
			storage.Accounts[i] = *account
			return s.saveAccountStorage(storage)
		}
	}

	storage.Accounts = append(storage.Accounts, *account)
	return s.saveAccountStorage(storage)
}

func (s *Storage) FindByEmail(email string) (*models.Account, error) {
	email = models.NormalizeEmail(email)
	return s.find(func(a *models.Account) bool { return a.Email == email },
		goerr.V("email", email))
}

func (s *Storage) FindByActivationKey(key string) (*models.Account, error) {
	if key == "" {
		return nil, goerr.Wrap(ErrAccountNotFound, "empty activation key")
	}
	return s.find(func(a *models.Account) bool { return a.ActivationKey == key })
}

func (s *Storage) ListAccounts() ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	storage, err := s.loadAccountStorage()
	if err != nil {
		return nil, err
	}
	return storage.Accounts, nil
}

func (s *Storage) DeleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	storage, err := s.loadAccountStorage()
	if err != nil {
		return err
	}

	for i, account := range storage.Accounts {
		if account.ID == id {
			storage.Accounts = append(storage.Accounts[:i], storage.Accounts[i+1:]...)
			return s.saveAccountStorage(storage)
		}
	}

	return goerr.Wrap(ErrAccountNotFound, "cannot delete account", goerr.V("id", id))
}

func (s *Storage) find(match func(*models.Account) bool, values ...goerr.Option) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	storage, err := s.loadAccountStorage()
	if err != nil {
		return nil, err
	}

	for i := range storage.Accounts {
		if match(&storage.Accounts[i]) {
			account := storage.Accounts[i]
			return &account, nil
		}
	}

	return nil, goerr.Wrap(ErrAccountNotFound, "no matching account", values...)
}

func (s *Storage) loadAccountStorage() (*AccountStorage, error) {
	filePath := filepath.Join(s.dataDir, accountsFile)

	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return &AccountStorage{Accounts: []models.Account{}}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read accounts file", goerr.V("path", filePath))
	}

	var storage AccountStorage
	if err := json.Unmarshal(data, &storage); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal account storage", goerr.V("path", filePath))
	}

	return &storage, nil
}

func (s *Storage) saveAccountStorage(storage *AccountStorage) error {
	data, err := json.MarshalIndent(storage, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal account storage")
	}

	// write then rename so a failed write never truncates the accounts file
	filePath := filepath.Join(s.dataDir, accountsFile)
	tmp, err := os.CreateTemp(s.dataDir, accountsFile+".*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary accounts file", goerr.V("dir", s.dataDir))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write accounts file", goerr.V("path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to write accounts file", goerr.V("path", tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return goerr.Wrap(err, "failed to replace accounts file", goerr.V("path", filePath))
	}

	return nil
}
