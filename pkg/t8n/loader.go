package t8n

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadAlloc reads alloc.json from path.
func LoadAlloc(path string) (Alloc, error) {
	var a Alloc
	if err := loadJSON(path, &a); err != nil {
		return nil, fmt.Errorf("loading alloc: %w", err)
	}
	return a, nil
}

// LoadEnvironment reads env.json from path.
func LoadEnvironment(path string) (Environment, error) {
	var e Environment
	if err := loadJSON(path, &e); err != nil {
		return Environment{}, fmt.Errorf("loading env: %w", err)
	}
	return e, nil
}

// LoadTransactions reads txs.json from path.
func LoadTransactions(path string) ([]TransactionInput, error) {
	var txs []TransactionInput
	if err := loadJSON(path, &txs); err != nil {
		return nil, fmt.Errorf("loading txs: %w", err)
	}
	return txs, nil
}

// WriteResult writes result.json to path.
func WriteResult(path string, result *Result) error {
	return writeJSON(path, result)
}

// WriteAlloc writes alloc-out.json to path.
func WriteAlloc(path string, alloc Alloc) error {
	return writeJSON(path, alloc)
}

func loadJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}

func writeJSON(path string, v interface{}) error {
	var w io.WriteCloser
	if path == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		w = f
	}
	defer w.Close()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
