package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccepts(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		accepted bool
	}{
		{"vcf shorthand", "17-36459258-A-G", true},
		{"vcf chr prefix", "chr17-36459258-A-G", true},
		{"hgvs coding", "NM_000458.4:c.544G>A", true},
		{"hgvs protein", "NP_000449.1:p.Gly182Asp", true},
		{"hgvs genomic", "NC_000017.11:g.36459258A>G", true},
		{"spdi", "NC_000017.11:36459257:A:G", true},
		{"cnv", "17:36459258-37832869:DEL", true},
		{"genomic without NC accession", "chr17:g.36459258A>G", false},
		{"bare coding body", "c.544G>A", false},
		{"free text", "invalid-format", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.accepted, Accepts(tt.raw))
		})
	}
}
