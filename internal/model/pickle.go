package model

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
)

// LoadPickle reads a pickled scikit-learn LogisticRegression and
// extracts its trained weights. Only the attributes the decision
// function needs (coef_, intercept_, classes_) are decoded; the rest
// of the estimator state is ignored.
func LoadPickle(path string) (*LogisticRegression, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	u := pickle.NewUnpickler(f)
	u.FindClass = findClass
	obj, err := u.Load()
	if err != nil {
		return nil, fmt.Errorf("unable to unpickle %s: %w", path, err)
	}
	est, ok := obj.(*sklearnEstimator)
	if !ok {
		return nil, fmt.Errorf("%s does not contain a LogisticRegression (got %T)", path, obj)
	}
	return est.weights()
}

// findClass maps the pickle stream's class references onto local
// stand-ins. Anything we do not model resolves to a generic class so
// that unrelated estimator attributes do not abort the load.
func findClass(module, name string) (interface{}, error) {
	switch {
	case strings.HasPrefix(module, "numpy") && name == "_reconstruct":
		return arrayReconstruct{}, nil
	case strings.HasPrefix(module, "numpy") && name == "ndarray":
		return ndarrayClass{}, nil
	case strings.HasPrefix(module, "numpy") && name == "dtype":
		return dtypeClass{}, nil
	case strings.HasPrefix(module, "sklearn.linear_model") && name == "LogisticRegression":
		return estimatorClass{}, nil
	}
	return types.NewGenericClass(module, name), nil
}

// dtype captures the numpy element type of a pickled array.
type dtype struct {
	kind      string // e.g. "f8", "i8"
	byteOrder byte   // '<', '>' or '|'
}

type dtypeClass struct{}

// Call handles numpy.dtype('f8', False, True).
func (dtypeClass) Call(args ...interface{}) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("numpy.dtype: missing arguments")
	}
	kind, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("numpy.dtype: unexpected name %T", args[0])
	}
	return &dtype{kind: kind, byteOrder: '='}, nil
}

// PySetState handles the dtype state tuple; index 1 is the byte order.
func (d *dtype) PySetState(state interface{}) error {
	t, ok := state.(*types.Tuple)
	if !ok || t.Len() < 2 {
		return fmt.Errorf("numpy.dtype: unexpected state %T", state)
	}
	order, ok := t.Get(1).(string)
	if !ok || order == "" {
		return fmt.Errorf("numpy.dtype: unexpected byte order in state")
	}
	d.byteOrder = order[0]
	return nil
}

// ndarray is a minimal numpy array: shape, element type and raw bytes.
// Decoding into Go values happens lazily so arrays with element types
// we do not support can still be carried through the load.
type ndarray struct {
	shape []int
	dtype *dtype
	data  []byte
}

type ndarrayClass struct{}

func (ndarrayClass) PyNew(args ...interface{}) (interface{}, error) {
	return &ndarray{}, nil
}

// arrayReconstruct handles numpy.core.multiarray._reconstruct, which
// only allocates the array; the contents arrive via PySetState.
type arrayReconstruct struct{}

func (arrayReconstruct) Call(args ...interface{}) (interface{}, error) {
	return &ndarray{}, nil
}

// PySetState handles the ndarray state tuple:
// (version, shape, dtype, is_fortran, data).
func (a *ndarray) PySetState(state interface{}) error {
	t, ok := state.(*types.Tuple)
	if !ok || t.Len() != 5 {
		return fmt.Errorf("numpy.ndarray: unexpected state %T", state)
	}
	shape, ok := t.Get(1).(*types.Tuple)
	if !ok {
		return fmt.Errorf("numpy.ndarray: unexpected shape %T", t.Get(1))
	}
	a.shape = make([]int, shape.Len())
	for i := 0; i < shape.Len(); i++ {
		dim, ok := shape.Get(i).(int)
		if !ok {
			return fmt.Errorf("numpy.ndarray: non-integer dimension %T", shape.Get(i))
		}
		a.shape[i] = dim
	}
	if a.dtype, ok = t.Get(2).(*dtype); !ok {
		return fmt.Errorf("numpy.ndarray: unexpected dtype %T", t.Get(2))
	}
	if fortran, ok := t.Get(3).(bool); ok && fortran {
		return fmt.Errorf("numpy.ndarray: Fortran-ordered arrays are not supported")
	}
	switch data := t.Get(4).(type) {
	case []byte:
		a.data = data
	case string:
		a.data = []byte(data)
	default:
		return fmt.Errorf("numpy.ndarray: unsupported data payload %T", data)
	}
	return nil
}

func (a *ndarray) size() int {
	n := 1
	for _, dim := range a.shape {
		n *= dim
	}
	return n
}

// float64s decodes the raw bytes into a flat float64 slice.
func (a *ndarray) float64s() ([]float64, error) {
	if a.dtype == nil {
		return nil, fmt.Errorf("array has no dtype")
	}
	if a.dtype.byteOrder == '>' {
		return nil, fmt.Errorf("big-endian arrays are not supported")
	}
	n := a.size()
	width := len(a.data) / max(n, 1)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		chunk := a.data[i*width : (i+1)*width]
		switch a.dtype.kind {
		case "f8":
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(chunk))
		case "f4":
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(chunk)))
		case "i8":
			out[i] = float64(int64(binary.LittleEndian.Uint64(chunk)))
		case "i4":
			out[i] = float64(int32(binary.LittleEndian.Uint32(chunk)))
		default:
			return nil, fmt.Errorf("unsupported array dtype %q", a.dtype.kind)
		}
	}
	return out, nil
}

// sklearnEstimator collects the pickled estimator attributes we care
// about from the __dict__ state.
type sklearnEstimator struct {
	coef      *ndarray
	intercept *ndarray
	classes   *ndarray
}

type estimatorClass struct{}

func (estimatorClass) PyNew(args ...interface{}) (interface{}, error) {
	return &sklearnEstimator{}, nil
}

func (e *sklearnEstimator) PySetState(state interface{}) error {
	d, ok := state.(*types.Dict)
	if !ok {
		return fmt.Errorf("LogisticRegression: unexpected state %T", state)
	}
	if v, ok := d.Get("coef_"); ok {
		e.coef, _ = v.(*ndarray)
	}
	if v, ok := d.Get("intercept_"); ok {
		e.intercept, _ = v.(*ndarray)
	}
	if v, ok := d.Get("classes_"); ok {
		e.classes, _ = v.(*ndarray)
	}
	return nil
}

// weights converts the collected arrays into a LogisticRegression.
func (e *sklearnEstimator) weights() (*LogisticRegression, error) {
	if e.coef == nil || e.intercept == nil || e.classes == nil {
		return nil, fmt.Errorf("estimator state is missing coef_, intercept_ or classes_: was the model fitted before pickling?")
	}
	coef, err := e.coef.float64s()
	if err != nil {
		return nil, fmt.Errorf("coef_: %w", err)
	}
	intercept, err := e.intercept.float64s()
	if err != nil {
		return nil, fmt.Errorf("intercept_: %w", err)
	}
	if len(intercept) != 1 {
		return nil, fmt.Errorf("expected a single intercept, got %d", len(intercept))
	}
	rawClasses, err := e.classes.float64s()
	if err != nil {
		return nil, fmt.Errorf("classes_: %w", err)
	}
	classes := make([]int, len(rawClasses))
	for i, c := range rawClasses {
		classes[i] = int(c)
	}
	return &LogisticRegression{Coef: coef, Intercept: intercept[0], Classes: classes}, nil
}
