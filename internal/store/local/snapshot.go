package local

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"autoget/backend/internal/domain"
)

// Serialize renders the snapshot as one JSON document keyed by collection
// name. The output is deterministic, so serialize -> deserialize -> serialize
// round-trips byte for byte.
func Serialize(snapshot domain.Snapshot) ([]byte, error) {
	return json.MarshalIndent(normalized(snapshot), "", "  ")
}

// Deserialize parses a snapshot document produced by Serialize.
func Deserialize(data []byte) (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return domain.Snapshot{}, err
	}
	return normalized(snapshot), nil
}

// normalized replaces nil collections with empty ones so that serialization
// stays stable regardless of how the snapshot was produced.
func normalized(snapshot domain.Snapshot) domain.Snapshot {
	if snapshot.Products == nil {
		snapshot.Products = []domain.Product{}
	}
	if snapshot.Suppliers == nil {
		snapshot.Suppliers = []domain.Supplier{}
	}
	if snapshot.StockEntries == nil {
		snapshot.StockEntries = []domain.StockEntry{}
	}
	if snapshot.Payments == nil {
		snapshot.Payments = []domain.Payment{}
	}
	if snapshot.Expenses == nil {
		snapshot.Expenses = []domain.Expense{}
	}
	if snapshot.ExpenseCategories == nil {
		snapshot.ExpenseCategories = []domain.ExpenseCategory{}
	}
	if snapshot.Packages == nil {
		snapshot.Packages = []domain.Package{}
	}
	if snapshot.Employees == nil {
		snapshot.Employees = []domain.Employee{}
	}
	if snapshot.SalaryAdvances == nil {
		snapshot.SalaryAdvances = []domain.SalaryAdvance{}
	}
	return snapshot
}

func loadSnapshot(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return normalized(domain.Snapshot{}), nil
		}
		return domain.Snapshot{}, err
	}
	return Deserialize(data)
}

// writeSnapshot persists the whole snapshot atomically: temp file in the same
// directory, then rename. Last writer wins; there is no partial persistence.
func writeSnapshot(path string, snapshot domain.Snapshot) error {
	data, err := Serialize(snapshot)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
