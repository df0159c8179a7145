package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportPathSingle(t *testing.T) {
	assert.Equal(t, "out/report.xlsx", exportPath("out/report.xlsx", "../../etc/x", 0, false))
}

func TestExportPathStaysInDirectory(t *testing.T) {
	tests := []struct {
		implPath string
		index    int
		want     string
	}{
		{"EXM1", 0, "out/report-1-EXM1.xlsx"},
		{"../../etc/passwd", 1, "out/report-2-etc_passwd.xlsx"},
		{"a/b\\c", 2, "out/report-3-a_b_c.xlsx"},
		{"..", 3, "out/report-4-.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.implPath, func(t *testing.T) {
			got := exportPath("out/report.xlsx", tt.implPath, tt.index, true)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "out", filepath.Dir(got))
		})
	}
}

func TestExportPathDuplicatesDoNotCollide(t *testing.T) {
	first := exportPath("report.xlsx", "EXM1", 0, true)
	second := exportPath("report.xlsx", "EXM1", 1, true)
	assert.NotEqual(t, first, second)
}
