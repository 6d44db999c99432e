package diff_test

import (
	"fmt"

	"github.com/cwbudde/algo-dynid/dsp/diff"
)

func ExampleDifferentiate() {
	position := []float64{0, 0.5, 1, 1.5, 2, 2.5}

	velocity, err := diff.Differentiate(position, 0.1, 1, diff.Scheme4)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%.1f\n", velocity)

	// Output:
	// [5.0 5.0 5.0 5.0 5.0 5.0]
}
