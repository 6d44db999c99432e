package zerophase_test

import (
	"fmt"

	"github.com/cwbudde/algo-dynid/dsp/filter/design"
	"github.com/cwbudde/algo-dynid/dsp/filter/zerophase"
)

func ExampleButterFiltFilt() {
	const h = 0.001
	x := make([]float64, 100)
	for i := range x {
		x[i] = 2.5
	}

	y, err := zerophase.ButterFiltFilt(3, design.NormalizedCutoff(10, h), x)
	if err != nil {
		panic(err)
	}
	fmt.Printf("len=%d first=%.6f last=%.6f\n", len(y), y[0], y[len(y)-1])
	// Output: len=100 first=2.500000 last=2.500000
}
