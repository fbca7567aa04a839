// Package consent persists the boolean gates that must be read before any
// question leaves the machine: the AI consent flag, the optional analytics
// consent and the one-time chat notice acknowledgement.
package consent

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Flag keys are versioned; bumping a suffix re-asks the user after a policy
// text change.
const (
	ConsentKey   = "cc_ai_consent_v2"
	AnalyticsKey = "cc_analytics_consent"
	NoticeKey    = "cc_chat_notice_ack_v2"
)

// Store is the persisted consent record. No network call may happen while
// HasConsent is false.
type Store interface {
	HasConsent() bool
	HasAnalyticsConsent() bool
	NoticeAcknowledged() bool
	GrantConsent(analytics bool) error
	AcknowledgeNotice() error
}

// FileStore keeps the flags in a small JSON file under the user directory.
type FileStore struct {
	path  string
	flags map[string]bool
}

// OpenFileStore loads the flag file, creating an empty record when missing.
func OpenFileStore() (*FileStore, error) {
	path, err := flagsPath()
	if err != nil {
		return nil, err
	}

	fs := &FileStore{path: path, flags: make(map[string]bool)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &fs.flags); err != nil {
		// A corrupt flag file means consent cannot be proven; start unset.
		fs.flags = make(map[string]bool)
	}
	return fs, nil
}

func flagsPath() (string, error) {
	var dir string
	if home := os.Getenv("TRIAGEM_HOME"); home != "" {
		dir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = homeDir
	}
	return filepath.Join(dir, ".triagem", "flags.json"), nil
}

func (fs *FileStore) HasConsent() bool          { return fs.flags[ConsentKey] }
func (fs *FileStore) HasAnalyticsConsent() bool { return fs.flags[AnalyticsKey] }
func (fs *FileStore) NoticeAcknowledged() bool  { return fs.flags[NoticeKey] }

// GrantConsent records acceptance. Analytics consent is stored only when the
// optional checkbox was ticked; otherwise any previous grant is removed.
func (fs *FileStore) GrantConsent(analytics bool) error {
	fs.flags[ConsentKey] = true
	if analytics {
		fs.flags[AnalyticsKey] = true
	} else {
		delete(fs.flags, AnalyticsKey)
	}
	return fs.save()
}

func (fs *FileStore) AcknowledgeNotice() error {
	fs.flags[NoticeKey] = true
	return fs.save()
}

func (fs *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(fs.flags, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fs.path, data, 0600)
}

// MemoryStore is an in-memory Store for tests and throwaway sessions.
type MemoryStore struct {
	Consent   bool
	Analytics bool
	Notice    bool
}

func (m *MemoryStore) HasConsent() bool          { return m.Consent }
func (m *MemoryStore) HasAnalyticsConsent() bool { return m.Analytics }
func (m *MemoryStore) NoticeAcknowledged() bool  { return m.Notice }

func (m *MemoryStore) GrantConsent(analytics bool) error {
	m.Consent = true
	m.Analytics = analytics
	return nil
}

func (m *MemoryStore) AcknowledgeNotice() error {
	m.Notice = true
	return nil
}
