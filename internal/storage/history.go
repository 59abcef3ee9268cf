package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"pomodorotasks/internal/core/model"
)

const (
	historyFileName = "sessions.json"
	historyVersion  = 1
)

type historyFile struct {
	Version  int                   `json:"version"`
	Sessions []model.SessionRecord `json:"sessions"`
}

// HistoryLog is the append-only list of completed sessions kept in a JSON file.
type HistoryLog struct {
	mu      sync.Mutex
	path    string
	records []model.SessionRecord
}

// HistoryPath returns the history file location inside dir.
func HistoryPath(dir string) string {
	return filepath.Join(dir, historyFileName)
}

// OpenHistory loads the history file at path. A missing file yields an empty log.
func OpenHistory(path string) (*HistoryLog, error) {
	history := &HistoryLog{path: path}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return history, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}

	var fileData historyFile
	if err := json.Unmarshal(rawData, &fileData); err != nil {
		return nil, fmt.Errorf("parse history file: %w", err)
	}
	if fileData.Version > historyVersion {
		return nil, fmt.Errorf("history file version %d is newer than supported %d", fileData.Version, historyVersion)
	}
	history.records = fileData.Sessions
	return history, nil
}

// Append adds record and rewrites the file.
func (history *HistoryLog) Append(record model.SessionRecord) error {
	history.mu.Lock()
	defer history.mu.Unlock()

	records := append(slices.Clone(history.records), record)
	if err := history.writeLocked(records); err != nil {
		return err
	}
	history.records = records
	return nil
}

// Records returns a copy of every stored session in append order.
func (history *HistoryLog) Records() []model.SessionRecord {
	history.mu.Lock()
	defer history.mu.Unlock()
	return slices.Clone(history.records)
}

func (history *HistoryLog) writeLocked(records []model.SessionRecord) error {
	if err := os.MkdirAll(filepath.Dir(history.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	serialized, err := json.MarshalIndent(historyFile{Version: historyVersion, Sessions: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	temp, err := os.CreateTemp(filepath.Dir(history.path), historyFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create history temp file: %w", err)
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath)

	if _, err := temp.Write(serialized); err != nil {
		temp.Close()
		return fmt.Errorf("write history temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("close history temp file: %w", err)
	}
	if err := os.Rename(tempPath, history.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
