package environment

// FunctionEnder ends an episode whenever a function of the underlying
// world returns true, regardless of the elapsed time
type FunctionEnder struct {
	end func() bool
}

// NewFunctionEnder returns a new FunctionEnder
func NewFunctionEnder(end func() bool) *FunctionEnder {
	return &FunctionEnder{end}
}

// End determines whether or not the current episode should be ended
func (f *FunctionEnder) End(float64) bool {
	return f.end()
}
