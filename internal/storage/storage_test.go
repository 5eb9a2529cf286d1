package storage

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"clipo/clipoterm/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	return s
}

func TestSaveAndFindAccount(t *testing.T) {
	s := newTestStorage(t)

	account := models.NewAccount(" Ada@Example.com ", "Ada", "Lovelace", nil, time.Now())
	if err := s.SaveAccount(account); err != nil {
		t.Fatalf("Failed to save account: %v", err)
	}

	found, err := s.FindByEmail("ADA@example.com")
	if err != nil {
		t.Fatalf("Failed to find account by email: %v", err)
	}
	if found.ID != account.ID {
		t.Errorf("Expected account %s, got %s", account.ID, found.ID)
	}

	found, err = s.FindByActivationKey(account.ActivationKey)
	if err != nil {
		t.Fatalf("Failed to find account by activation key: %v", err)
	}
	if found.Email != "ada@example.com" {
		t.Errorf("Expected normalized email, got '%s'", found.Email)
	}
}

func TestSaveAccountReplaces(t *testing.T) {
	s := newTestStorage(t)

	account := models.NewAccount("a@example.com", "A", "B", nil, time.Now())
	if err := s.SaveAccount(account); err != nil {
		t.Fatalf("Failed to save account: %v", err)
	}

	account.Activated = true
	account.ActivationKey = ""
	if err := s.SaveAccount(account); err != nil {
		t.Fatalf("Failed to update account: %v", err)
	}

	accounts, err := s.ListAccounts()
	if err != nil {
		t.Fatalf("Failed to list accounts: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("Expected 1 account, got %d", len(accounts))
	}
	if !accounts[0].Activated {
		t.Error("Expected stored account to be activated")
	}
}

func TestFindMissingAccount(t *testing.T) {
	s := newTestStorage(t)

	if _, err := s.FindByEmail("nobody@example.com"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}

	if _, err := s.FindByActivationKey(""); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound for empty key, got %v", err)
	}

	if err := s.DeleteAccount("missing"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound on delete, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	s := newTestStorage(t)

	account := models.NewAccount("a@example.com", "A", "B", nil, time.Now())
	if err := s.SaveAccount(account); err != nil {
		t.Fatalf("Failed to save account: %v", err)
	}
	if err := s.DeleteAccount(account.ID); err != nil {
		t.Fatalf("Failed to delete account: %v", err)
	}

	accounts, err := s.ListAccounts()
	if err != nil {
		t.Fatalf("Failed to list accounts: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("Expected no accounts, got %d", len(accounts))
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if hash == "secret1" {
		t.Error("Expected hash to differ from the password")
	}

	if !ValidatePassword(hash, "secret1") {
		t.Error("Expected password to validate")
	}

	if ValidatePassword(hash, "secret2") {
		t.Error("Expected wrong password to fail")
	}
}

func TestSaveLeavesNoTemporaryFiles(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < 3; i++ {
		account := models.NewAccount(fmt.Sprintf("user%d@example.com", i), "", "", nil, time.Now())
		if err := s.SaveAccount(account); err != nil {
			t.Fatalf("Failed to save account: %v", err)
		}
	}

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		t.Fatalf("Failed to read data dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != accountsFile {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only %s, got %v", accountsFile, names)
	}
}
