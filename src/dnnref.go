package fpgatest

/*------------------------------------------------------------------
 *
 * Purpose:	Software reference for the DNN skeleton.
 *
 *		The harness treats inference as a pure function from
 *		input vector to output vector; anything implementing
 *		InferenceModel can stand behind it.  The linear model
 *		below matches the basic test network the device images
 *		ship with.
 *
 *------------------------------------------------------------------*/

// InferenceModel is the reference the DNN driver compares against.
type InferenceModel interface {
	Infer(in []float64) []float64
}

// LinearModel is a single fixed-point linear layer: y = W x + b, accumulated
// in floating point and then rounded and saturated onto the fixed-point grid.
type LinearModel struct {
	Weights [][]float64 // [out][in]
	Bias    []float64
	Params  FixedPoint
}

// NewBasicTestModel builds the stock test network: all weights 2, bias
// cycling through -1, 1, 2.
func NewBasicTestModel(numInputs, numOutputs int, params FixedPoint) *LinearModel {
	m := &LinearModel{
		Weights: make([][]float64, numOutputs),
		Bias:    make([]float64, numOutputs),
		Params:  params,
	}
	biases := []float64{-1, 1, 2}
	for j := 0; j < numOutputs; j++ {
		m.Weights[j] = make([]float64, numInputs)
		for i := range m.Weights[j] {
			m.Weights[j][i] = 2
		}
		m.Bias[j] = biases[j%len(biases)]
	}
	return m
}

func (m *LinearModel) Infer(in []float64) []float64 {
	out := make([]float64, len(m.Weights))
	for j, row := range m.Weights {
		acc := m.Bias[j]
		for i, w := range row {
			if i < len(in) {
				acc += w * in[i]
			}
		}
		out[j] = m.Params.AsRational(m.Params.AsInteger(acc))
	}
	return out
}

// GenerateModelInputs builds the sweep the DNN experiment streams: for each
// input port, every representable value with the other ports at zero,
// preceded by an all-zero row.  Values sit exactly on the fixed-point grid.
func GenerateModelInputs(numInputs int, params FixedPoint) [][]float64 {
	step := params.AsRational(1)
	span := float64(int(1) << (params.TotalBits - params.FracBits))
	start := -span / 2
	stop := span / 2

	rows := [][]float64{make([]float64, numInputs)}
	for idx := 0; idx < numInputs; idx++ {
		for v := start; v < stop; v += step {
			row := make([]float64, numInputs)
			row[idx] = params.AsRational(params.AsInteger(v))
			rows = append(rows, row)
		}
	}
	return rows
}
