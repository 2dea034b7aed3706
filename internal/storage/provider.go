// Package storage keeps data export archives on disk.
package storage

import "time"

// FileInfo describes one stored archive.
type FileInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider is the interface for archive file operations. Names are relative
// to the archive root.
type Provider interface {
	List() ([]FileInfo, error)
	Read(name string) ([]byte, error)
	// Write atomically replaces name with content.
	Write(name string, content []byte) error
	Delete(name string) error
}

// Prune deletes all but the keep newest archives and returns the names it
// removed. keep <= 0 keeps everything.
func Prune(p Provider, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	files, err := p.List()
	if err != nil {
		return nil, err
	}
	if len(files) <= keep {
		return nil, nil
	}
	var removed []string
	for _, f := range files[keep:] {
		if err := p.Delete(f.Name); err != nil {
			return removed, err
		}
		removed = append(removed, f.Name)
	}
	return removed, nil
}
