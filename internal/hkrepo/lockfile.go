package hkrepo

import (
	"os"

	"github.com/pelletier/go-toml"
)

// LockEntry is one resolved remote import's pin: the directory name
// hkutil.RemoteDirName derived, and the exact URL/rev (or zip path) that
// was fetched there, so a later resolve can detect drift without
// re-deriving anything from the importing statement.
type LockEntry struct {
	Dir    string `toml:"dir"`
	Kind   string `toml:"kind"`
	URL    string `toml:"url,omitempty"`
	Rev    string `toml:"rev,omitempty"`
	Path   string `toml:"path,omitempty"`
}

// Lock is the `hkc.lock` file's contents: one entry per distinct remote
// import directory, keyed by that directory's name.
type Lock struct {
	Entries map[string]LockEntry `toml:"entries"`
}

// LoadLock reads path, returning an empty Lock if the file doesn't exist
// yet (a missing lock file is not an error: it means nothing has been
// resolved before).
func LoadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Lock{Entries: map[string]LockEntry{}}, nil
	}
	if err != nil {
		return nil, err
	}
	var l Lock
	if err := toml.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	if l.Entries == nil {
		l.Entries = map[string]LockEntry{}
	}
	return &l, nil
}

// Save writes l to path as TOML.
func (l *Lock) Save(path string) error {
	data, err := toml.Marshal(*l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
