package instance

import (
	"bytes"
	"encoding/json"
	"os"
)

// Metadata identifies the session holding the lock.
type Metadata struct {
	ProcessID             uint32 `json:"process_id"`
	ProcessGroupID        uint32 `json:"process_group_id"`
	ProcessStartTimeTicks uint64 `json:"process_start_time_ticks"`
}

// valid rejects identities that would make kill(2) address the caller's own
// group or every process.
func (m *Metadata) valid() bool {
	return m.ProcessID != 0 && m.ProcessGroupID > 1
}

func (m *Metadata) encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// parseMetadata returns nil when data records no usable holder.
func parseMetadata(data []byte) *Metadata {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil
	}
	if !meta.valid() {
		return nil
	}
	return &meta
}

// readMetadata returns the raw file content alongside the parsed holder.
func readMetadata(path string) ([]byte, *Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return data, parseMetadata(data), nil
}
