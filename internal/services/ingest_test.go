package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUploadPath(t *testing.T) {
	tests := []struct {
		name        string
		objectName  string
		wantLibrary string
		wantYear    int
		wantErr     bool
	}{
		{
			name:        "well-formed path",
			objectName:  "lib-1/2024/annual-report.pdf",
			wantLibrary: "lib-1",
			wantYear:    2024,
		},
		{
			name:       "missing year segment",
			objectName: "lib-1/annual-report.pdf",
			wantErr:    true,
		},
		{
			name:       "year not numeric",
			objectName: "lib-1/latest/annual-report.pdf",
			wantErr:    true,
		},
		{
			name:       "too many segments",
			objectName: "tenant/lib-1/2024/annual-report.pdf",
			wantErr:    true,
		},
		{
			name:       "empty library segment",
			objectName: "/2024/annual-report.pdf",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			libraryID, year, err := parseUploadPath(tt.objectName)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLibrary, libraryID)
			assert.Equal(t, tt.wantYear, year)
		})
	}
}
