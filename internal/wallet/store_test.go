package wallet

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-wallet/internal/storage"
)

func TestStore_SaveLoad(t *testing.T) {
	db := storage.NewMemory()
	s := NewStore(db, testWalletOptions(""))
	w := populatedWallet(t, DerivationHD)

	if err := s.Save(w); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if ok, _ := db.Has([]byte("wallet/" + w.ID())); !ok {
		t.Fatal("record not stored under wallet/ prefix")
	}

	got, err := s.Load(w.ID())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.ID() != w.ID() || got.Balance() != w.Balance() || len(got.Accounts()) != 2 {
		t.Error("loaded wallet differs")
	}
}

func TestStore_ListDelete(t *testing.T) {
	s := NewStore(storage.NewMemory(), testWalletOptions(""))
	a := mustImport(t, DerivationIndex)
	b := mustImport(t, DerivationIndex)
	s.Save(a)
	s.Save(b)

	ids, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("List() = %v, want 2 ids", ids)
	}

	if err := s.Delete(a.ID()); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if ok, _ := s.Has(a.ID()); ok {
		t.Error("Has() = true after Delete()")
	}
	if err := s.Delete(a.ID()); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("second Delete() error = %v, want ErrWalletNotFound", err)
	}
	if _, err := s.Load(a.ID()); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("Load() deleted error = %v, want ErrWalletNotFound", err)
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	db := storage.NewMemory()
	s := NewStore(db, testWalletOptions(""))
	db.Put([]byte("wallet/broken"), []byte("{}"))

	if _, err := s.Load("broken"); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("Load() error = %v, want ErrInvalidRecord", err)
	}
}

func TestStore_LoadWrongKey(t *testing.T) {
	db := storage.NewMemory()
	s := NewStore(db, testWalletOptions(""))
	w := mustImport(t, DerivationIndex)
	data, _ := MarshalRecord(w)
	db.Put([]byte("wallet/elsewhere"), data)

	if _, err := s.Load("elsewhere"); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("Load() error = %v, want ErrInvalidRecord", err)
	}
}

func TestStore_Badger(t *testing.T) {
	db, err := storage.NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	defer db.Close()

	s := NewStore(db, testWalletOptions(""))
	w := populatedWallet(t, DerivationHD)
	if err := s.Save(w); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := s.Load(w.ID())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.ActiveAccount().Address != w.ActiveAccount().Address {
		t.Error("active account differs after badger round trip")
	}
}

// plainDB hides the inner DB's batch support.
type plainDB struct{ storage.DB }

func testStoreDefault(t *testing.T, db storage.DB) {
	t.Helper()
	s := NewStore(db, testWalletOptions(""))
	a := mustImport(t, DerivationIndex)
	b := mustImport(t, DerivationIndex)

	if id, err := s.Default(); err != nil || id != "" {
		t.Fatalf("Default() on empty store = %q, %v", id, err)
	}
	if err := s.SaveDefault(a); err != nil {
		t.Fatalf("SaveDefault() error: %v", err)
	}
	if err := s.SaveDefault(b); err != nil {
		t.Fatalf("SaveDefault() error: %v", err)
	}
	if id, _ := s.Default(); id != b.ID() {
		t.Fatalf("Default() = %q, want %q", id, b.ID())
	}
	if _, err := s.Load(a.ID()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if err := s.SetDefault("missing"); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("SetDefault(missing) error = %v, want ErrWalletNotFound", err)
	}
	if err := s.SetDefault(a.ID()); err != nil {
		t.Fatalf("SetDefault() error: %v", err)
	}

	// Deleting another wallet keeps the pointer.
	if err := s.Delete(b.ID()); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if id, _ := s.Default(); id != a.ID() {
		t.Errorf("Default() after deleting another wallet = %q, want %q", id, a.ID())
	}

	// Deleting the default wallet clears it.
	if err := s.Delete(a.ID()); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if id, _ := s.Default(); id != "" {
		t.Errorf("Default() after deleting it = %q, want empty", id)
	}
	if ok, _ := db.Has(defaultKey); ok {
		t.Error("default pointer left behind")
	}
	if ids, _ := s.List(); len(ids) != 0 {
		t.Errorf("List() = %v, want none", ids)
	}
}

func TestStore_Default(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		testStoreDefault(t, storage.NewMemory())
	})
	t.Run("Replay", func(t *testing.T) {
		testStoreDefault(t, plainDB{storage.NewMemory()})
	})
	t.Run("Badger", func(t *testing.T) {
		db, err := storage.NewBadger(t.TempDir())
		if err != nil {
			t.Fatalf("NewBadger() error: %v", err)
		}
		defer db.Close()
		testStoreDefault(t, db)
	})
}

func TestStore_DefaultNotListed(t *testing.T) {
	db := storage.NewMemory()
	s := NewStore(db, testWalletOptions(""))
	w := mustImport(t, DerivationIndex)
	if err := s.SaveDefault(w); err != nil {
		t.Fatalf("SaveDefault() error: %v", err)
	}
	ids, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(ids) != 1 || ids[0] != w.ID() {
		t.Errorf("List() = %v, want only %s", ids, w.ID())
	}
	if ok, _ := db.Has([]byte("wallet/" + w.ID())); !ok {
		t.Error("record not stored under wallet/ prefix")
	}
}
