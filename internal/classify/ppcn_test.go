package classify

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDerivePPCN(t *testing.T) {
	dir := t.TempDir()
	copies := writeFile(t, dir, "copies.txt", "module\tS1\tS2\nM1\t10\t6\nM2\t4\t3\n")
	pops := writeFile(t, dir, "pops.txt", "sample\tnum_populations\nS1\t2\nS2\t3\n")

	ppcn, err := derivePPCN(copies, pops)
	require.NoError(t, err)

	// Transposed: rows are samples, columns are modules.
	assert.Equal(t, "sample", ppcn.IndexName())
	assert.Equal(t, []string{"S1", "S2"}, ppcn.Rows())
	assert.Equal(t, []string{"M1", "M2"}, ppcn.Cols())
	assert.Equal(t, 5.0, ppcn.At("S1", "M1"))
	assert.Equal(t, 2.0, ppcn.At("S1", "M2"))
	assert.Equal(t, 2.0, ppcn.At("S2", "M1"))
	assert.Equal(t, 1.0, ppcn.At("S2", "M2"))
}

func TestDerivePPCNExtraPopulationsAllowed(t *testing.T) {
	// Populations may be a superset of the copy-number samples.
	dir := t.TempDir()
	copies := writeFile(t, dir, "copies.txt", "module\tS1\nM1\t10\n")
	pops := writeFile(t, dir, "pops.txt", "sample\tnum_populations\nS1\t2\nS2\t7\n")

	ppcn, err := derivePPCN(copies, pops)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1"}, ppcn.Rows())
}

func TestDerivePPCNMissingSamples(t *testing.T) {
	dir := t.TempDir()
	copies := writeFile(t, dir, "copies.txt", "module\tS3\tS2\tS1\nM1\t1\t2\t3\n")
	pops := writeFile(t, dir, "pops.txt", "sample\tnum_populations\nS2\t2\n")

	_, err := derivePPCN(copies, pops)
	require.Error(t, err)
	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	// Every offending sample is named, in sorted order.
	assert.Contains(t, err.Error(), "S1, S3")
	assert.NotContains(t, err.Error(), "S2")
}

func TestDerivePPCNRequiresModuleIndex(t *testing.T) {
	dir := t.TempDir()
	copies := writeFile(t, dir, "copies.txt", "gene\tS1\nM1\t10\n")
	pops := writeFile(t, dir, "pops.txt", "sample\tnum_populations\nS1\t2\n")

	_, err := derivePPCN(copies, pops)
	require.Error(t, err)
	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Contains(t, err.Error(), "should be named 'module'")
}

func TestDerivePPCNRequiresNumPopulations(t *testing.T) {
	dir := t.TempDir()
	copies := writeFile(t, dir, "copies.txt", "module\tS1\nM1\t10\n")
	pops := writeFile(t, dir, "pops.txt", "sample\tpopulation_count\nS1\t2\n")

	_, err := derivePPCN(copies, pops)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "num_populations")
}

func TestDerivePPCNZeroPopulationsPropagates(t *testing.T) {
	// Population sizes are not guarded; division artifacts carry
	// through like the numeric stack they came from would produce.
	dir := t.TempDir()
	copies := writeFile(t, dir, "copies.txt", "module\tS1\nM1\t10\n")
	pops := writeFile(t, dir, "pops.txt", "sample\tnum_populations\nS1\t0\n")

	ppcn, err := derivePPCN(copies, pops)
	require.NoError(t, err)
	assert.True(t, math.IsInf(ppcn.At("S1", "M1"), 1))
}

func TestBuildPPCNDirectMode(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ppcn.txt", "sample\tM1\tM2\nS1\t0.5\t1.25\n")

	ppcn, err := buildPPCN(Options{PPCNTable: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"S1"}, ppcn.Rows())
	assert.Equal(t, 1.25, ppcn.At("S1", "M2"))
}
