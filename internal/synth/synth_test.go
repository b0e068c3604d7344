package synth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/fstd2nc/internal/adapter/store/rawfile"
	"go.ngs.io/fstd2nc/internal/domain"
)

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.raw")
	sum, err := Write(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 17, sum.Records)
	assert.Equal(t, []string{"TT", "PN", "UU", "QQ", domain.XCoordName, domain.YCoordName, domain.HybridName}, sum.Variables)

	headers, err := rawfile.NewStore(true).ReadHeaders(path)
	require.NoError(t, err)
	require.Len(t, headers, sum.Records)

	hy := headers[len(headers)-1]
	assert.Equal(t, domain.HybridName, hy.Name())
	assert.Equal(t, int32(1000), hy.IG1)
	assert.Equal(t, "DEMO", hy.Label())
}

func TestWrite_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Steps = 0
	_, err := Write(filepath.Join(t.TempDir(), "x.raw"), opts)
	assert.Error(t, err)
}
