package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressMessage(t *testing.T) {
	tests := []struct {
		name      string
		hwm       int
		remaining int
		want      string
	}{
		{"queue not populated yet", 0, 0, "Starting import..."},
		{"mid run", 10, 3, "Importing page 8 of 9"},
		{"first page", 10, 9, "Importing page 2 of 9"},
		{"only report job left", 10, 1, "Generating import report..."},
		{"terminal", 10, 0, "Import finished"},
		{"single job queue", 1, 1, "Generating import report..."},
		{"single job done", 1, 0, "Import finished"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressMessage(tt.hwm, tt.remaining))
		})
	}
}
