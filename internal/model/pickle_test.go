package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/nlpodyssey/gopickle/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f8bytes(values ...float64) []byte {
	out := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}

func i8bytes(values ...int64) []byte {
	out := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(out[i*8:], uint64(v))
	}
	return out
}

func TestNdarraySetStateAndDecode(t *testing.T) {
	d := &dtype{kind: "f8", byteOrder: '<'}
	shape := types.NewTupleFromSlice([]interface{}{1, 3})
	state := types.NewTupleFromSlice([]interface{}{1, shape, d, false, f8bytes(0.5, -2, 4)})

	a := &ndarray{}
	require.NoError(t, a.PySetState(state))
	assert.Equal(t, []int{1, 3}, a.shape)

	values, err := a.float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -2, 4}, values)
}

func TestNdarrayDecodeInt64(t *testing.T) {
	a := &ndarray{
		shape: []int{2},
		dtype: &dtype{kind: "i8", byteOrder: '<'},
		data:  i8bytes(0, 1),
	}

	values, err := a.float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, values)
}

func TestNdarrayDecodeUnsupportedDtype(t *testing.T) {
	a := &ndarray{shape: []int{1}, dtype: &dtype{kind: "O", byteOrder: '|'}, data: []byte{0}}

	_, err := a.float64s()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `dtype "O"`)
}

func TestDtypeSetState(t *testing.T) {
	obj, err := dtypeClass{}.Call("f8", false, true)
	require.NoError(t, err)
	d := obj.(*dtype)
	assert.Equal(t, "f8", d.kind)

	state := types.NewTupleFromSlice([]interface{}{3, "<", nil, nil, nil, -1, -1, 0})
	require.NoError(t, d.PySetState(state))
	assert.Equal(t, byte('<'), d.byteOrder)
}

func TestFindClass(t *testing.T) {
	obj, err := findClass("numpy._core.multiarray", "_reconstruct")
	require.NoError(t, err)
	assert.IsType(t, arrayReconstruct{}, obj)

	obj, err = findClass("numpy", "ndarray")
	require.NoError(t, err)
	assert.IsType(t, ndarrayClass{}, obj)

	obj, err = findClass("sklearn.linear_model._logistic", "LogisticRegression")
	require.NoError(t, err)
	assert.IsType(t, estimatorClass{}, obj)

	obj, err = findClass("sklearn.preprocessing._data", "StandardScaler")
	require.NoError(t, err)
	assert.IsType(t, &types.GenericClass{}, obj)
}

func TestEstimatorWeights(t *testing.T) {
	e := &sklearnEstimator{
		coef:      &ndarray{shape: []int{1, 2}, dtype: &dtype{kind: "f8", byteOrder: '<'}, data: f8bytes(1.5, -0.5)},
		intercept: &ndarray{shape: []int{1}, dtype: &dtype{kind: "f8", byteOrder: '<'}, data: f8bytes(-3)},
		classes:   &ndarray{shape: []int{2}, dtype: &dtype{kind: "i8", byteOrder: '<'}, data: i8bytes(0, 1)},
	}

	m, err := e.weights()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -0.5}, m.Coef)
	assert.Equal(t, -3.0, m.Intercept)
	assert.Equal(t, []int{0, 1}, m.Classes)
}

func TestEstimatorWeightsUnfitted(t *testing.T) {
	_, err := (&sklearnEstimator{}).weights()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fitted")
}

func TestEstimatorSetState(t *testing.T) {
	coef := &ndarray{shape: []int{1, 1}, dtype: &dtype{kind: "f8", byteOrder: '<'}, data: f8bytes(2)}
	state := types.NewDict()
	state.Set("solver", "lbfgs")
	state.Set("coef_", coef)

	e := &sklearnEstimator{}
	require.NoError(t, e.PySetState(state))
	assert.Same(t, coef, e.coef)
	assert.Nil(t, e.intercept)
}
